package contest

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// ErrNoContestID is returned when the route does not name a contest.
var ErrNoContestID = errors.New("no contest id in route")

// ErrEmptyResponse is returned when the judge answers a contest lookup with nothing.
var ErrEmptyResponse = errors.New("empty response")

// Route supplies the identifier of the contest being viewed.
type Route interface {
	ContestID() string
}

// StaticRoute is a Route that always names the same contest.
type StaticRoute string

func (r StaticRoute) ContestID() string { return string(r) }

// Store owns a contest page State. It is safe for concurrent use; every mutation
// is applied atomically and readers get copies.
type Store struct {
	mu    sync.RWMutex
	state State

	client ojapi.Client
	route  Route
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewStore creates a Store in its initial state, fetching through client for the
// contest named by route.
func NewStore(client ojapi.Client, route Route, opts ...Option) *Store {
	s := &Store{
		state:  NewState(time.Now()),
		client: client,
		route:  route,
		logger: slog.Default(),
		tracer: otel.Tracer("github.com/rw-r-r-0644/oj-contest/contest"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit applies m to the state.
func (s *Store) Commit(m Mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.apply(m)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// View derives the page for v from the current state.
func (s *Store) View(v Viewer) View {
	return s.Snapshot().View(v)
}
