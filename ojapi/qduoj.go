package ojapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func init() {
	Register(BackendDef{
		ID:   "qduoj_anonymous",
		Name: "QingdaoU OJ (Anonymous)",
		Settings: []SettingDef{
			{ID: "base_url", Name: "Base URL", Required: true},
			{ID: "rate_limit", Name: "Requests per second", Default: "5"},
			{ID: "timeout", Name: "Request timeout", Default: "30s"},
		},
		Build: func(s map[string]string) (Client, error) {
			return newQDUOJ(s, func(*http.Request) {})
		},
	})

	Register(BackendDef{
		ID:   "qduoj_session",
		Name: "QingdaoU OJ (Session)",
		Settings: []SettingDef{
			{ID: "base_url", Name: "Base URL", Required: true},
			{ID: "session_id", Name: "Session ID", Required: true},
			{ID: "csrf_token", Name: "CSRF Token"},
			{ID: "rate_limit", Name: "Requests per second", Default: "5"},
			{ID: "timeout", Name: "Request timeout", Default: "30s"},
		},
		Build: func(s map[string]string) (Client, error) {
			return newQDUOJ(s, sessionAuth(s["session_id"], s["csrf_token"]))
		},
	})
}

type qduojClient struct {
	baseURL   string
	applyAuth func(*http.Request)
	client    *http.Client
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    *slog.Logger
}

func sessionAuth(sessionID, csrfToken string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "sessionid", Value: sessionID})
		if csrfToken != "" {
			r.AddCookie(&http.Cookie{Name: "csrftoken", Value: csrfToken})
			r.Header.Set("X-CSRFToken", csrfToken)
		}
	}
}

func newQDUOJ(s map[string]string, auth func(*http.Request)) (*qduojClient, error) {
	baseURL := strings.TrimRight(s["base_url"], "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", s["base_url"], err)
	}

	limit := rate.Inf
	if v := s["rate_limit"]; v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate_limit %q: %w", v, err)
		}
		if rps > 0 {
			limit = rate.Limit(rps)
		}
	}

	timeout := 30 * time.Second
	if v := s["timeout"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		timeout = d
	}

	return &qduojClient{
		baseURL:   baseURL,
		applyAuth: auth,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		logger:    slog.Default(),
	}, nil
}

func (c *qduojClient) Instrument(m *Metrics, logger *slog.Logger) {
	c.metrics = m
	if logger != nil {
		c.logger = logger
	}
}

func (c *qduojClient) GetContest(ctx context.Context, contestID string) (*Contest, error) {
	var contest Contest
	if err := c.get(ctx, "contest", url.Values{"id": {contestID}}, &contest); err != nil {
		return nil, err
	}
	return &contest, nil
}

func (c *qduojClient) GetContestProblemList(ctx context.Context, contestID string) ([]Problem, error) {
	var problems []Problem
	if err := c.get(ctx, "contest/problem", url.Values{"contest_id": {contestID}}, &problems); err != nil {
		return nil, err
	}
	if problems == nil {
		problems = []Problem{}
	}
	return problems, nil
}

func (c *qduojClient) GetContestAccess(ctx context.Context, contestID string) (bool, error) {
	var payload qduojAccess
	if err := c.get(ctx, "contest/access", url.Values{"contest_id": {contestID}}, &payload); err != nil {
		return false, err
	}
	return payload.Access, nil
}

func (c *qduojClient) GetProfile(ctx context.Context) (*User, error) {
	var profile *qduojProfile
	if err := c.get(ctx, "profile", nil, &profile); err != nil {
		return nil, err
	}
	if profile == nil || profile.User.ID == 0 {
		return nil, nil
	}
	return &profile.User, nil
}

// get performs a GET against /api/<endpoint> and decodes the envelope's data into out.
func (c *qduojClient) get(ctx context.Context, endpoint string, query url.Values, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(endpoint, start, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + "/api/" + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	c.applyAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("qduoj %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "judge api call",
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qduoj %s failed (%s): %s", endpoint, resp.Status, strings.TrimSpace(string(body)))
	}

	var env qduojEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse qduoj %s response: %w", endpoint, err)
	}
	if env.Error != nil {
		return &APIError{Endpoint: endpoint, Code: *env.Error, Message: envelopeMessage(env.Data)}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("parse qduoj %s data: %w", endpoint, err)
	}
	return nil
}

// envelopeMessage extracts the human-readable message the judge places in data on error.
func envelopeMessage(data json.RawMessage) string {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		return strings.TrimSpace(msg)
	}
	return strings.TrimSpace(string(data))
}

type qduojEnvelope struct {
	Error *string         `json:"error"`
	Data  json.RawMessage `json:"data"`
}

type qduojAccess struct {
	Access bool `json:"access"`
}

type qduojProfile struct {
	User User `json:"user"`
}
