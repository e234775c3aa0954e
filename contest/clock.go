package contest

import (
	"context"
	"time"
)

// Clock tells the page what time it is.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// AnchorClock always reports the same instant.
type AnchorClock struct {
	anchor time.Time
}

func NewAnchorClock(t time.Time) AnchorClock { return AnchorClock{anchor: t} }

func (c AnchorClock) Now() time.Time { return c.anchor }

// ShiftedClock runs at wall-clock speed from a shifted origin.
type ShiftedClock struct {
	Offset time.Duration
}

// ShiftedTo returns a ShiftedClock whose current time is t.
func ShiftedTo(t time.Time) ShiftedClock {
	return ShiftedClock{Offset: time.Until(t)}
}

func (c ShiftedClock) Now() time.Time { return time.Now().Add(c.Offset) }

// Tick pushes the clock into the store immediately and then every interval until ctx
// is done. onTick, if set, sees the state after each push.
func Tick(ctx context.Context, s *Store, clock Clock, interval time.Duration, onTick func(State)) error {
	push := func() {
		s.Commit(SetNow{Now: clock.Now()})
		if onTick != nil {
			onTick(s.Snapshot())
		}
	}

	push()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			push()
		}
	}
}
