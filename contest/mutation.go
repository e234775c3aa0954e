package contest

import (
	"fmt"
	"time"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// Mutation is a synchronous change to State. The set of mutations is closed.
type Mutation interface {
	mutation()
}

type (
	SetContest      struct{ Contest ojapi.Contest }
	SetMenuVisible  struct{ Visible bool }
	SetChartVisible struct{ Visible bool }
	SetProblems     struct{ Problems []ojapi.Problem }
	SetRankLimit    struct{ Limit int }
	SetAccess       struct{ Access bool }
	SetNow          struct{ Now time.Time }
	// Clear resets the page to an unloaded contest.
	Clear struct{}
)

func (SetContest) mutation()      {}
func (SetMenuVisible) mutation()  {}
func (SetChartVisible) mutation() {}
func (SetProblems) mutation()     {}
func (SetRankLimit) mutation()    {}
func (SetAccess) mutation()       {}
func (SetNow) mutation()          {}
func (Clear) mutation()           {}

func (st *State) apply(m Mutation) {
	switch m := m.(type) {
	case SetContest:
		st.Contest = m.Contest
	case SetMenuVisible:
		st.ShowMenu = m.Visible
	case SetChartVisible:
		st.ShowChart = m.Visible
	case SetProblems:
		st.Problems = m.Problems
	case SetRankLimit:
		st.RankLimit = m.Limit
	case SetAccess:
		st.Access = m.Access
	case SetNow:
		st.Now = m.Now
	case Clear:
		st.Contest = ojapi.Contest{}
		st.Problems = []ojapi.Problem{}
		st.ShowMenu = true
		st.ShowChart = true
		st.Access = false
	default:
		panic(fmt.Sprintf("contest: unhandled mutation %T", m))
	}
}
