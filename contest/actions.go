package contest

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// GetContest fetches the routed contest and stores it. Password protected contests
// also get their access flag checked. Failures are returned and leave the state untouched.
func (s *Store) GetContest(ctx context.Context) (*ojapi.Contest, error) {
	id := s.route.ContestID()
	ctx, span := s.startSpan(ctx, "GetContest", id)
	defer span.End()

	if id == "" {
		fail(span, ErrNoContestID)
		return nil, ErrNoContestID
	}

	c, err := s.client.GetContest(ctx, id)
	if err != nil {
		fail(span, err)
		s.logger.WarnContext(ctx, "fetch contest failed", slog.String("contest_id", id), slog.Any("error", err))
		return nil, fmt.Errorf("get contest %s: %w", id, err)
	}
	if c == nil {
		err := fmt.Errorf("get contest %s: %w", id, ErrEmptyResponse)
		fail(span, err)
		return nil, err
	}

	s.Commit(SetContest{Contest: *c})
	span.SetAttributes(attribute.String("contest.type", string(c.ContestType)))
	if c.ContestType == ojapi.PrivateContest {
		s.GetContestAccess(ctx)
	}
	return c, nil
}

// GetContestProblems fetches and stores the routed contest's problems.
// On failure the stored list is emptied; no error is reported.
func (s *Store) GetContestProblems(ctx context.Context) []ojapi.Problem {
	id := s.route.ContestID()
	ctx, span := s.startSpan(ctx, "GetContestProblems", id)
	defer span.End()

	problems, err := s.fetchProblems(ctx, id)
	if err != nil {
		fail(span, err)
		s.logger.WarnContext(ctx, "fetch contest problems failed", slog.String("contest_id", id), slog.Any("error", err))
		problems = []ojapi.Problem{}
	}
	s.Commit(SetProblems{Problems: problems})
	span.SetAttributes(attribute.Int("contest.problems", len(problems)))
	return problems
}

func (s *Store) fetchProblems(ctx context.Context, id string) ([]ojapi.Problem, error) {
	if id == "" {
		return nil, ErrNoContestID
	}
	return s.client.GetContestProblemList(ctx, id)
}

// GetContestAccess checks whether the viewer has unlocked the routed contest and stores
// the answer. Failures are dropped; the returned flag is whatever the state holds afterwards.
func (s *Store) GetContestAccess(ctx context.Context) bool {
	id := s.route.ContestID()
	ctx, span := s.startSpan(ctx, "GetContestAccess", id)
	defer span.End()

	if id != "" {
		access, err := s.client.GetContestAccess(ctx, id)
		if err != nil {
			fail(span, err)
			s.logger.DebugContext(ctx, "contest access check failed", slog.String("contest_id", id), slog.Any("error", err))
		} else {
			s.Commit(SetAccess{Access: access})
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Access
}

func (s *Store) startSpan(ctx context.Context, op, contestID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "contest."+op, trace.WithAttributes(
		attribute.String("operation", op),
		attribute.String("contest.id", contestID),
	))
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
