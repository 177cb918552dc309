package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mindwellhq/mindwell/pkg/agent"
	"github.com/mindwellhq/mindwell/pkg/profile"
	"github.com/mindwellhq/mindwell/pkg/providers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	store, err := profile.NewStore(filepath.Join(dir, "profile.json"), filepath.Join(dir, "resources.json"), nil)
	require.NoError(t, err)
	gen := agent.NewGenerator(nil, nil, store, providers.SamplingOptions{}, 2, nil)
	service := agent.NewService(store, gen, "", nil)
	return New("127.0.0.1:0", service, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat",
		`{"message": "I'm Sam and I can't sleep at all", "history": []}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Message        string            `json:"message"`
		ProfileUpdates map[string]string `json:"profile_updates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Message)
	require.Equal(t, "Sam", resp.ProfileUpdates["name"])
	require.NotEmpty(t, resp.ProfileUpdates["sleepQuality"])
}

func TestChatEndpoint_MalformedBodyStillReplies(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat", `{not json`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["message"])
}

func TestChatEndpoint_EmptyBody(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["message"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var h agent.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	require.Equal(t, "healthy", h.Status)
	require.Equal(t, "not loaded", h.Model)
	require.Equal(t, "not initialized", h.VectorStore)
	require.True(t, h.FallbackAvailable)
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var before profile.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	require.Empty(t, before.Name)
	require.NotNil(t, before.ConversationHistory)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/api/profile",
		`{"name": "Alex", "stressLevel": "high"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var after profile.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	require.Equal(t, "Alex", after.Name)
	require.Equal(t, "high", after.StressLevel)

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/api/profile", "")
	var persisted profile.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &persisted))
	require.Equal(t, "Alex", persisted.Name)
}

func TestProfileUpdate_BadJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/profile", `{broken`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResourcesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/resources", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res profile.Resources
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Crisis)
	require.NotEmpty(t, res.SelfHelp)
	require.NotEmpty(t, res.Professional)
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Mindwell API is running")
}
