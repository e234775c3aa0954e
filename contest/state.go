// Package contest holds the view state of a single contest page: the contest record,
// its problems, the viewer's access flag, display preferences and the page clock.
// Everything a view renders is derived from that state on read.
package contest

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// DefaultRankLimit is the number of rank rows shown before the viewer asks for more.
const DefaultRankLimit = 30

// Status is the phase of a contest relative to the page clock.
type Status string

const (
	StatusUnknown Status = ""
	NotStart      Status = "1"
	Underway      Status = "0"
	Ended         Status = "-1"
)

// Label is the display name of the status.
func (s Status) Label() string {
	switch s {
	case NotStart:
		return "Not Started"
	case Underway:
		return "Underway"
	case Ended:
		return "Ended"
	default:
		return ""
	}
}

// MarshalJSON encodes StatusUnknown as null.
func (s Status) MarshalJSON() ([]byte, error) {
	if s == StatusUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// Viewer is the authentication context of whoever is looking at the page.
type Viewer struct {
	Authenticated bool
	User          ojapi.User
}

// ViewerFromProfile builds a Viewer from a profile lookup; nil means anonymous.
func ViewerFromProfile(u *ojapi.User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{Authenticated: true, User: *u}
}

// State is the owned contest page state. It is only changed through mutations.
type State struct {
	Now       time.Time
	Access    bool
	RankLimit int
	Contest   ojapi.Contest
	Problems  []ojapi.Problem
	ShowMenu  bool
	ShowChart bool
}

// NewState returns the initial state with the clock set to now.
func NewState(now time.Time) State {
	return State{
		Now:       now,
		RankLimit: DefaultRankLimit,
		Contest:   ojapi.Contest{ContestType: ojapi.PublicContest},
		Problems:  []ojapi.Problem{},
		ShowMenu:  true,
		ShowChart: true,
	}
}

func (st State) clone() State {
	st.Problems = slices.Clone(st.Problems)
	return st
}
