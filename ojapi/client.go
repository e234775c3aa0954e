package ojapi

import "context"

// Client is the interface for online-judge API integrations.
type Client interface {
	// GetContest retrieves a single contest by its identifier.
	GetContest(ctx context.Context, contestID string) (*Contest, error)

	// GetContestProblemList retrieves the problems of a contest in display order.
	GetContestProblemList(ctx context.Context, contestID string) ([]Problem, error)

	// GetContestAccess reports whether the current session has unlocked the contest.
	GetContestAccess(ctx context.Context, contestID string) (bool, error)

	// GetProfile returns the signed-in user.
	// Returns nil without error for anonymous sessions.
	GetProfile(ctx context.Context) (*User, error)
}
