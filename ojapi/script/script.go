package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

func init() {
	ojapi.Register(ojapi.BackendDef{
		ID:   "script",
		Name: "Custom Script",
		Settings: []ojapi.SettingDef{
			{ID: "command", Name: "Command", Required: true},
			{ID: "timeout", Name: "Script timeout", Default: "2m"},
		},
		Build: func(s map[string]string) (ojapi.Client, error) {
			return newScript(s["command"], s["timeout"])
		},
	})
}

// scriptClient runs an external command per call. The command receives a JSON request
// on stdin and answers with a JSON document on stdout.
type scriptClient struct {
	command []string
	timeout time.Duration
}

func newScript(command, timeout string) (*scriptClient, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("command is required")
	}
	d := 2 * time.Minute
	if timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", timeout, err)
		}
		d = parsed
	}
	return &scriptClient{
		command: parts,
		timeout: d,
	}, nil
}

func (c *scriptClient) GetContest(ctx context.Context, contestID string) (*ojapi.Contest, error) {
	var resp scriptContestResponse
	if err := c.call(ctx, scriptRequest{Action: "contest", ContestID: contestID}, &resp); err != nil {
		return nil, err
	}
	if resp.Contest == nil {
		return nil, fmt.Errorf("script returned no contest for %s", contestID)
	}
	return resp.Contest, nil
}

func (c *scriptClient) GetContestProblemList(ctx context.Context, contestID string) ([]ojapi.Problem, error) {
	var resp scriptProblemsResponse
	if err := c.call(ctx, scriptRequest{Action: "problems", ContestID: contestID}, &resp); err != nil {
		return nil, err
	}
	if resp.Problems == nil {
		return []ojapi.Problem{}, nil
	}
	return resp.Problems, nil
}

func (c *scriptClient) GetContestAccess(ctx context.Context, contestID string) (bool, error) {
	var resp scriptAccessResponse
	if err := c.call(ctx, scriptRequest{Action: "access", ContestID: contestID}, &resp); err != nil {
		return false, err
	}
	return resp.Access, nil
}

func (c *scriptClient) GetProfile(ctx context.Context) (*ojapi.User, error) {
	var resp scriptProfileResponse
	if err := c.call(ctx, scriptRequest{Action: "profile"}, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *scriptClient) call(ctx context.Context, payload scriptRequest, out any) error {
	output, err := c.run(ctx, payload)
	if err != nil {
		return err
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(output, &envelope); err != nil {
		return fmt.Errorf("parse %s result: %w", payload.Action, err)
	}
	if envelope.Error != "" {
		return &ojapi.APIError{Endpoint: payload.Action, Code: "error", Message: envelope.Error}
	}
	if err := json.Unmarshal(output, out); err != nil {
		return fmt.Errorf("parse %s result: %w", payload.Action, err)
	}
	return nil
}

func (c *scriptClient) run(ctx context.Context, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode script request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.command[0], c.command[1:]...)
	cmd.Stdin = bytes.NewReader(data)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return nil, fmt.Errorf("script error: %s", stderr)
			}
		}
		return nil, fmt.Errorf("script error: %w", err)
	}
	return output, nil
}

type scriptRequest struct {
	Action    string `json:"action"`
	ContestID string `json:"contest_id,omitempty"`
}

type scriptContestResponse struct {
	Contest *ojapi.Contest `json:"contest"`
}

type scriptProblemsResponse struct {
	Problems []ojapi.Problem `json:"problems"`
}

type scriptAccessResponse struct {
	Access bool `json:"access"`
}

type scriptProfileResponse struct {
	User *ojapi.User `json:"user"`
}
