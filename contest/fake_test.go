package contest

import (
	"context"
	"errors"
	"sync"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// ------------------------
// Fake judge client
// ------------------------

type FakeClient struct {
	mu    sync.Mutex
	trace []string

	GetContestFunc            func(ctx context.Context, contestID string) (*ojapi.Contest, error)
	GetContestProblemListFunc func(ctx context.Context, contestID string) ([]ojapi.Problem, error)
	GetContestAccessFunc      func(ctx context.Context, contestID string) (bool, error)
	GetProfileFunc            func(ctx context.Context) (*ojapi.User, error)
}

var errUnconfigured = errors.New("fake: not configured")

func (f *FakeClient) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeClient) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeClient) GetContest(ctx context.Context, contestID string) (*ojapi.Contest, error) {
	f.record("GetContest:" + contestID)
	if f.GetContestFunc != nil {
		return f.GetContestFunc(ctx, contestID)
	}
	return nil, errUnconfigured
}

func (f *FakeClient) GetContestProblemList(ctx context.Context, contestID string) ([]ojapi.Problem, error) {
	f.record("GetContestProblemList:" + contestID)
	if f.GetContestProblemListFunc != nil {
		return f.GetContestProblemListFunc(ctx, contestID)
	}
	return nil, errUnconfigured
}

func (f *FakeClient) GetContestAccess(ctx context.Context, contestID string) (bool, error) {
	f.record("GetContestAccess:" + contestID)
	if f.GetContestAccessFunc != nil {
		return f.GetContestAccessFunc(ctx, contestID)
	}
	return false, errUnconfigured
}

func (f *FakeClient) GetProfile(ctx context.Context) (*ojapi.User, error) {
	f.record("GetProfile")
	if f.GetProfileFunc != nil {
		return f.GetProfileFunc(ctx)
	}
	return nil, nil
}

var _ ojapi.Client = (*FakeClient)(nil)
