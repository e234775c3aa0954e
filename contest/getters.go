package contest

import (
	"time"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

// ContestLoaded reports whether a contest has been fetched into the state.
func (st State) ContestLoaded() bool {
	return st.Contest.Status.Truthy()
}

// ContestStatus places the page clock relative to the contest window.
// A contest that starts exactly now is underway; one that ends exactly now is still underway.
// A missing start or end time never satisfies its comparison.
func (st State) ContestStatus() Status {
	if !st.ContestLoaded() {
		return StatusUnknown
	}
	start, end := st.Contest.StartTime, st.Contest.EndTime
	switch {
	case !start.IsZero() && start.After(st.Now):
		return NotStart
	case !end.IsZero() && end.Before(st.Now):
		return Ended
	default:
		return Underway
	}
}

// ContestRuleType returns the rule type, or "" when none is set.
func (st State) ContestRuleType() string {
	return st.Contest.RuleType
}

// IsContestAdmin reports whether v created the contest or is a super admin.
func (st State) IsContestAdmin(v Viewer) bool {
	if !v.Authenticated {
		return false
	}
	creator := st.Contest.CreatedBy.ID
	return (creator != 0 && creator == v.User.ID) || v.User.AdminType == ojapi.SuperAdmin
}

func (st State) ContestMenuDisabled(v Viewer) bool {
	if st.IsContestAdmin(v) {
		return false
	}
	if st.Contest.ContestType == ojapi.PublicContest {
		return st.ContestStatus() == NotStart
	}
	return !st.Access
}

// OIContestRealTimePermission reports whether the live rank may be shown.
func (st State) OIContestRealTimePermission(v Viewer) bool {
	if st.ContestRuleType() == ojapi.RuleACM || st.ContestStatus() == Ended {
		return true
	}
	return st.Contest.RealTimeRank || st.IsContestAdmin(v)
}

func (st State) ProblemSubmitDisabled(v Viewer) bool {
	switch st.ContestStatus() {
	case Ended:
		return true
	case NotStart:
		return !st.IsContestAdmin(v)
	default:
		return !v.Authenticated
	}
}

// PasswordFormVisible reports whether the viewer must enter the contest password.
func (st State) PasswordFormVisible(v Viewer) bool {
	return st.Contest.ContestType != ojapi.PublicContest && !st.Access && !st.IsContestAdmin(v)
}

func (st State) ContestStartTime() Moment { return Moment{st.Contest.StartTime} }
func (st State) ContestEndTime() Moment   { return Moment{st.Contest.EndTime} }

// Moment wraps a contest timestamp for display.
type Moment struct {
	time.Time
}

// Valid reports whether the timestamp was present.
func (m Moment) Valid() bool { return !m.IsZero() }

func (m Moment) String() string {
	if !m.Valid() {
		return "Invalid date"
	}
	return m.Local().Format("2006-1-2 15:04:05")
}

// View is every derived value of the page for one viewer.
type View struct {
	Contest   ojapi.Contest   `json:"contest"`
	Problems  []ojapi.Problem `json:"contest_problems"`
	Access    bool            `json:"access"`
	Now       time.Time       `json:"now"`
	RankLimit int             `json:"rank_limit"`
	ShowMenu  bool            `json:"show_menu"`
	ShowChart bool            `json:"show_chart"`

	ContestLoaded               bool      `json:"contest_loaded"`
	ContestStatus               Status    `json:"contest_status"`
	ContestRuleType             string    `json:"contest_rule_type"`
	IsContestAdmin              bool      `json:"is_contest_admin"`
	ContestMenuDisabled         bool      `json:"contest_menu_disabled"`
	OIContestRealTimePermission bool      `json:"oi_contest_real_time_permission"`
	ProblemSubmitDisabled       bool      `json:"problem_submit_disabled"`
	PasswordFormVisible         bool      `json:"password_form_visible"`
	ContestStartTime            time.Time `json:"contest_start_time"`
	ContestEndTime              time.Time `json:"contest_end_time"`
	Countdown                   string    `json:"countdown"`
}

// View computes all derived values for v.
func (st State) View(v Viewer) View {
	return View{
		Contest:   st.Contest,
		Problems:  st.Problems,
		Access:    st.Access,
		Now:       st.Now,
		RankLimit: st.RankLimit,
		ShowMenu:  st.ShowMenu,
		ShowChart: st.ShowChart,

		ContestLoaded:               st.ContestLoaded(),
		ContestStatus:               st.ContestStatus(),
		ContestRuleType:             st.ContestRuleType(),
		IsContestAdmin:              st.IsContestAdmin(v),
		ContestMenuDisabled:         st.ContestMenuDisabled(v),
		OIContestRealTimePermission: st.OIContestRealTimePermission(v),
		ProblemSubmitDisabled:       st.ProblemSubmitDisabled(v),
		PasswordFormVisible:         st.PasswordFormVisible(v),
		ContestStartTime:            st.ContestStartTime().Time,
		ContestEndTime:              st.ContestEndTime().Time,
		Countdown:                   st.Countdown(),
	}
}
