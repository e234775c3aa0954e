package ojapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendsRegistered(t *testing.T) {
	expected := map[string]bool{
		"qduoj_anonymous": false,
		"qduoj_session":   false,
	}

	for _, b := range Backends() {
		if _, ok := expected[b.ID]; ok {
			expected[b.ID] = true
		}
	}

	for id, found := range expected {
		assert.True(t, found, "backend %q not registered", id)
	}
}

func TestBuildQDUOJAnonymous(t *testing.T) {
	client, err := Build("qduoj_anonymous", map[string]string{
		"base_url": "https://oj.example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, client)

	qc, ok := client.(*qduojClient)
	require.True(t, ok)
	assert.Equal(t, "https://oj.example.com", qc.baseURL)
	assert.InDelta(t, 5.0, float64(qc.limiter.Limit()), 0.001)
}

func TestBuildQDUOJSession(t *testing.T) {
	settings := map[string]string{
		"base_url":   "https://oj.example.com/",
		"session_id": "abc123",
		"rate_limit": "0",
	}
	client, err := Build("qduoj_session", settings)
	require.NoError(t, err)
	require.NotNil(t, client)

	qc := client.(*qduojClient)
	assert.Equal(t, "https://oj.example.com", qc.baseURL)
	_, hasTimeout := settings["timeout"]
	assert.False(t, hasTimeout, "Build must not modify the caller's settings")
}

func TestBuildInvalidSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
	}{
		{name: "bad url", settings: map[string]string{"base_url": "not a url"}},
		{name: "bad rate", settings: map[string]string{"base_url": "https://oj.example.com", "rate_limit": "fast"}},
		{name: "bad timeout", settings: map[string]string{"base_url": "https://oj.example.com", "timeout": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("qduoj_anonymous", tt.settings)
			assert.Error(t, err)
		})
	}
}

func TestBuildMissingRequired(t *testing.T) {
	_, err := Build("qduoj_session", map[string]string{
		"base_url": "https://oj.example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session ID is required")
}

func TestBuildUnknownBackend(t *testing.T) {
	_, err := Build("unknown", map[string]string{})
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(BackendDef{ID: "qduoj_session"})
	})
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("qduoj_session")
	require.True(t, ok)
	assert.Equal(t, "QingdaoU OJ (Session)", def.Name)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}
