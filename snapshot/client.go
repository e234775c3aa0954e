package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// ErrOffline is returned for calls that cannot be answered from the cache.
var ErrOffline = errors.New("offline: not cached")

// Client is an ojapi.Client that records successful contest and problem fetches.
// In offline mode it answers from the cache without calling Next.
type Client struct {
	Next    ojapi.Client
	Store   *Store
	Offline bool
	Logger  *slog.Logger
	Now     func() time.Time
}

func (c *Client) GetContest(ctx context.Context, contestID string) (*ojapi.Contest, error) {
	if c.Offline {
		e, err := c.Store.Load(contestID)
		if err != nil {
			return nil, err
		}
		return &e.Contest, nil
	}
	contest, err := c.Next.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if err := c.Store.SaveContest(contestID, *contest, c.now()); err != nil {
		c.logger().WarnContext(ctx, "cache contest failed", slog.String("contest_id", contestID), slog.Any("error", err))
	}
	return contest, nil
}

func (c *Client) GetContestProblemList(ctx context.Context, contestID string) ([]ojapi.Problem, error) {
	if c.Offline {
		e, err := c.Store.Load(contestID)
		if err != nil {
			return nil, err
		}
		return e.Problems, nil
	}
	problems, err := c.Next.GetContestProblemList(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if err := c.Store.SaveProblems(contestID, problems, c.now()); err != nil {
		c.logger().WarnContext(ctx, "cache problems failed", slog.String("contest_id", contestID), slog.Any("error", err))
	}
	return problems, nil
}

func (c *Client) GetContestAccess(ctx context.Context, contestID string) (bool, error) {
	if c.Offline {
		return false, ErrOffline
	}
	return c.Next.GetContestAccess(ctx, contestID)
}

func (c *Client) GetProfile(ctx context.Context) (*ojapi.User, error) {
	if c.Offline {
		return nil, nil
	}
	return c.Next.GetProfile(ctx)
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

var _ ojapi.Client = (*Client)(nil)
