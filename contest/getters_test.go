package contest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func loadedContest(mod func(*ojapi.Contest)) ojapi.Contest {
	c := ojapi.Contest{
		ID:          7,
		Title:       "Spring Cup",
		CreatedBy:   ojapi.UserRef{ID: 1, Username: "root"},
		ContestType: ojapi.PublicContest,
		Status:      ojapi.FlagOf(1),
		StartTime:   t0,
		EndTime:     t0.Add(time.Hour),
		RuleType:    "OI",
	}
	if mod != nil {
		mod(&c)
	}
	return c
}

func stateAt(c ojapi.Contest, now time.Time) State {
	st := NewState(now)
	st.apply(SetContest{Contest: c})
	return st
}

var (
	anonymous  = Viewer{}
	regular    = Viewer{Authenticated: true, User: ojapi.User{ID: 42, Username: "alice", AdminType: ojapi.RegularUser}}
	creator    = Viewer{Authenticated: true, User: ojapi.User{ID: 1, Username: "root", AdminType: ojapi.Admin}}
	superAdmin = Viewer{Authenticated: true, User: ojapi.User{ID: 99, Username: "boss", AdminType: ojapi.SuperAdmin}}
)

func TestContestLoaded(t *testing.T) {
	tests := []struct {
		name   string
		status ojapi.Flag
		want   bool
	}{
		{name: "missing", status: nil, want: false},
		{name: "number one", status: ojapi.FlagOf(1), want: true},
		{name: "number zero", status: ojapi.FlagOf(0), want: false},
		{name: "string zero", status: ojapi.FlagOf("0"), want: true},
		{name: "string minus one", status: ojapi.FlagOf("-1"), want: true},
		{name: "empty string", status: ojapi.FlagOf(""), want: false},
		{name: "null", status: ojapi.Flag("null"), want: false},
		{name: "false", status: ojapi.FlagOf(false), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState(t0)
			st.Contest.Status = tt.status
			assert.Equal(t, tt.want, st.ContestLoaded())
		})
	}
}

func TestContestStatus(t *testing.T) {
	tests := []struct {
		name    string
		contest ojapi.Contest
		now     time.Time
		want    Status
	}{
		{name: "not loaded", contest: ojapi.Contest{StartTime: t0, EndTime: t0.Add(time.Hour)}, now: t0, want: StatusUnknown},
		{name: "before start", contest: loadedContest(nil), now: t0.Add(-time.Second), want: NotStart},
		{name: "exactly at start", contest: loadedContest(nil), now: t0, want: Underway},
		{name: "in the middle", contest: loadedContest(nil), now: t0.Add(30 * time.Minute), want: Underway},
		{name: "exactly at end", contest: loadedContest(nil), now: t0.Add(time.Hour), want: Underway},
		{name: "after end", contest: loadedContest(nil), now: t0.Add(time.Hour + time.Millisecond), want: Ended},
		{
			name: "missing times",
			contest: loadedContest(func(c *ojapi.Contest) {
				c.StartTime, c.EndTime = time.Time{}, time.Time{}
			}),
			now:  t0,
			want: Underway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateAt(tt.contest, tt.now).ContestStatus())
		})
	}
}

func TestContestStatusWindow(t *testing.T) {
	c := loadedContest(nil)
	for offset := -2 * time.Hour; offset <= 2*time.Hour; offset += 7 * time.Minute {
		now := t0.Add(offset)
		got := stateAt(c, now).ContestStatus()
		switch {
		case now.Before(c.StartTime):
			assert.Equal(t, NotStart, got, "offset %s", offset)
		case now.After(c.EndTime):
			assert.Equal(t, Ended, got, "offset %s", offset)
		default:
			assert.Equal(t, Underway, got, "offset %s", offset)
		}
	}
}

func TestContestRuleType(t *testing.T) {
	assert.Equal(t, "", NewState(t0).ContestRuleType())
	assert.Equal(t, "ACM", stateAt(loadedContest(func(c *ojapi.Contest) { c.RuleType = "ACM" }), t0).ContestRuleType())
}

func TestIsContestAdmin(t *testing.T) {
	tests := []struct {
		name    string
		contest ojapi.Contest
		viewer  Viewer
		want    bool
	}{
		{name: "anonymous", contest: loadedContest(nil), viewer: anonymous, want: false},
		{
			name:    "unauthenticated super admin record",
			contest: loadedContest(nil),
			viewer:  Viewer{User: superAdmin.User},
			want:    false,
		},
		{
			name:    "unauthenticated creator record",
			contest: loadedContest(nil),
			viewer:  Viewer{User: creator.User},
			want:    false,
		},
		{name: "creator", contest: loadedContest(nil), viewer: creator, want: true},
		{name: "super admin", contest: loadedContest(nil), viewer: superAdmin, want: true},
		{name: "regular user", contest: loadedContest(nil), viewer: regular, want: false},
		{
			name:    "admin who did not create it",
			contest: loadedContest(nil),
			viewer:  Viewer{Authenticated: true, User: ojapi.User{ID: 5, AdminType: ojapi.Admin}},
			want:    false,
		},
		{name: "cleared contest", contest: ojapi.Contest{}, viewer: regular, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateAt(tt.contest, t0).IsContestAdmin(tt.viewer))
		})
	}
}

func TestContestMenuDisabled(t *testing.T) {
	private := loadedContest(func(c *ojapi.Contest) { c.ContestType = ojapi.PrivateContest })

	tests := []struct {
		name    string
		contest ojapi.Contest
		now     time.Time
		access  bool
		viewer  Viewer
		want    bool
	}{
		{name: "admin before start", contest: loadedContest(nil), now: t0.Add(-time.Hour), viewer: creator, want: false},
		{name: "public before start", contest: loadedContest(nil), now: t0.Add(-time.Hour), viewer: regular, want: true},
		{name: "public underway", contest: loadedContest(nil), now: t0.Add(10 * time.Second), viewer: regular, want: false},
		{name: "public ended", contest: loadedContest(nil), now: t0.Add(2 * time.Hour), viewer: anonymous, want: false},
		{name: "private without access", contest: private, now: t0.Add(time.Minute), viewer: regular, want: true},
		{name: "private with access", contest: private, now: t0.Add(time.Minute), access: true, viewer: regular, want: false},
		{name: "private admin", contest: private, now: t0.Add(time.Minute), viewer: superAdmin, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stateAt(tt.contest, tt.now)
			st.apply(SetAccess{Access: tt.access})
			assert.Equal(t, tt.want, st.ContestMenuDisabled(tt.viewer))
		})
	}
}

func TestOIContestRealTimePermission(t *testing.T) {
	tests := []struct {
		name    string
		contest ojapi.Contest
		now     time.Time
		viewer  Viewer
		want    bool
	}{
		{
			name:    "acm always",
			contest: loadedContest(func(c *ojapi.Contest) { c.RuleType = "ACM" }),
			now:     t0.Add(time.Minute),
			viewer:  anonymous,
			want:    true,
		},
		{name: "oi ended", contest: loadedContest(nil), now: t0.Add(2 * time.Hour), viewer: anonymous, want: true},
		{name: "oi underway hidden rank", contest: loadedContest(nil), now: t0.Add(time.Minute), viewer: regular, want: false},
		{
			name:    "oi underway real time rank",
			contest: loadedContest(func(c *ojapi.Contest) { c.RealTimeRank = true }),
			now:     t0.Add(time.Minute),
			viewer:  regular,
			want:    true,
		},
		{name: "oi underway admin", contest: loadedContest(nil), now: t0.Add(time.Minute), viewer: creator, want: true},
		{name: "oi not started", contest: loadedContest(nil), now: t0.Add(-time.Minute), viewer: regular, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateAt(tt.contest, tt.now).OIContestRealTimePermission(tt.viewer))
		})
	}
}

func TestProblemSubmitDisabled(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		viewer Viewer
		want   bool
	}{
		{name: "ended even for admin", now: t0.Add(2 * time.Hour), viewer: superAdmin, want: true},
		{name: "not started admin", now: t0.Add(-time.Hour), viewer: creator, want: false},
		{name: "not started regular", now: t0.Add(-time.Hour), viewer: regular, want: true},
		{name: "underway anonymous", now: t0.Add(time.Minute), viewer: anonymous, want: true},
		{name: "underway regular", now: t0.Add(time.Minute), viewer: regular, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateAt(loadedContest(nil), tt.now).ProblemSubmitDisabled(tt.viewer))
		})
	}
}

func TestPasswordFormVisible(t *testing.T) {
	private := loadedContest(func(c *ojapi.Contest) { c.ContestType = ojapi.PrivateContest })

	tests := []struct {
		name    string
		contest ojapi.Contest
		access  bool
		viewer  Viewer
		want    bool
	}{
		{name: "private without access", contest: private, viewer: regular, want: true},
		{name: "private anonymous", contest: private, viewer: anonymous, want: true},
		{name: "private with access", contest: private, access: true, viewer: regular, want: false},
		{name: "private admin", contest: private, viewer: creator, want: false},
		{name: "public", contest: loadedContest(nil), viewer: regular, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stateAt(tt.contest, t0)
			st.apply(SetAccess{Access: tt.access})
			assert.Equal(t, tt.want, st.PasswordFormVisible(tt.viewer))
		})
	}
}

func TestPublicContestUnderwayScenario(t *testing.T) {
	st := stateAt(loadedContest(nil), t0.Add(10*time.Second))

	assert.Equal(t, Underway, st.ContestStatus())
	assert.False(t, st.ContestMenuDisabled(regular))
	assert.False(t, st.ContestMenuDisabled(anonymous))
}

func TestPublicContestNotStartedScenario(t *testing.T) {
	st := stateAt(loadedContest(nil), t0.Add(-7200*time.Second))

	assert.Equal(t, NotStart, st.ContestStatus())
	assert.Equal(t, "-2:0:0", st.Countdown())
}

func TestContestTimes(t *testing.T) {
	st := stateAt(loadedContest(nil), t0)
	assert.True(t, st.ContestStartTime().Valid())
	assert.True(t, st.ContestStartTime().Equal(t0))
	assert.True(t, st.ContestEndTime().Equal(t0.Add(time.Hour)))

	empty := NewState(t0)
	assert.False(t, empty.ContestStartTime().Valid())
	assert.Equal(t, "Invalid date", empty.ContestEndTime().String())
}

func TestView(t *testing.T) {
	st := stateAt(loadedContest(func(c *ojapi.Contest) { c.ContestType = ojapi.PrivateContest }), t0.Add(time.Minute))
	v := st.View(regular)

	assert.True(t, v.ContestLoaded)
	assert.Equal(t, Underway, v.ContestStatus)
	assert.Equal(t, "OI", v.ContestRuleType)
	assert.False(t, v.IsContestAdmin)
	assert.True(t, v.ContestMenuDisabled)
	assert.True(t, v.PasswordFormVisible)
	assert.False(t, v.ProblemSubmitDisabled)
	assert.False(t, v.OIContestRealTimePermission)
	assert.Equal(t, "-1:59:0", v.Countdown)
	assert.Equal(t, DefaultRankLimit, v.RankLimit)
	assert.True(t, v.ShowMenu)
	assert.True(t, v.ShowChart)
}

func TestViewJSONUnloadedStatusIsNull(t *testing.T) {
	data, err := json.Marshal(NewState(t0).View(anonymous))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "contest_status")
	assert.Nil(t, decoded["contest_status"])
	assert.Equal(t, false, decoded["contest_loaded"])
	assert.Equal(t, "Ended", decoded["countdown"])
}
