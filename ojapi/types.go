package ojapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// ContestType controls how a contest is unlocked.
type ContestType string

const (
	PublicContest  ContestType = "Public"
	PrivateContest ContestType = "Password Protected"
)

// AdminType is the role of a user on the judge.
type AdminType string

const (
	RegularUser AdminType = "Regular User"
	Admin       AdminType = "Admin"
	SuperAdmin  AdminType = "Super Admin"
)

// RuleACM is the rule type under which ranks are always visible.
const RuleACM = "ACM"

// UserRef is the short user record embedded in other objects.
type UserRef struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

// User is the signed-in user as returned by the profile endpoint.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	AdminType AdminType `json:"admin_type"`
}

// Contest represents a judge contest.
type Contest struct {
	ID           int64       `json:"id,omitempty"`
	Title        string      `json:"title,omitempty"`
	CreatedBy    UserRef     `json:"created_by"`
	ContestType  ContestType `json:"contest_type,omitempty"`
	Status       Flag        `json:"status,omitempty"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
	RuleType     string      `json:"rule_type,omitempty"`
	RealTimeRank bool        `json:"real_time_rank"`
}

// Problem is a contest problem. Fields beyond the identifiers are kept in Raw.
type Problem struct {
	ID        int64           `json:"id"`
	DisplayID string          `json:"_id"`
	Title     string          `json:"title"`
	Raw       json.RawMessage `json:"-"`
}

func (p *Problem) UnmarshalJSON(data []byte) error {
	type plain Problem
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Problem(v)
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (p Problem) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type plain Problem
	return json.Marshal(plain(p))
}

// Flag holds an opaque JSON value whose only meaning is whether it is truthy.
type Flag json.RawMessage

// FlagOf encodes v as a Flag.
func FlagOf(v any) Flag {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Flag(data)
}

// Truthy follows JavaScript truthiness: null, false, 0, NaN and "" are falsy.
func (f Flag) Truthy() bool {
	raw := bytes.TrimSpace(f)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	}
	if raw[0] == '"' || raw[0] == '{' || raw[0] == '[' || string(raw) == "true" {
		return true
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return true
	}
	return n != 0
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("null"), nil
	}
	return f, nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = append((*f)[0:0], data...)
	return nil
}
