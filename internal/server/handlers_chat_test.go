package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/chart-agent/internal/config"
	"github.com/jonathan/chart-agent/internal/resolver"
	"github.com/jonathan/chart-agent/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		Port:           0,
		ChartsDir:      filepath.Join(dir, "charts"),
		SessionFile:    filepath.Join(dir, "sessions.json"),
		PreferenceFile: filepath.Join(dir, "preferences.json"),
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func chatResponse(t *testing.T, rec *httptest.ResponseRecorder) types.ChatResponse {
	t.Helper()
	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestChatCreatesChart(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: Apple=25, Banana=30, Orange=20",
		SessionID: "s1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := chatResponse(t, rec)
	assert.NotEmpty(t, resp.ChartID)
	assert.Equal(t, "/charts/"+resp.ChartID+".png", resp.ChartURL)
	assert.Equal(t, "/charts/"+resp.ChartID+".svg", resp.SVGURL)
	assert.Equal(t, types.SchemeFD, resp.ColorScheme)

	history, err := srv.store.History("s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	require.NotNil(t, history[1].Meta)
	assert.Equal(t, resp.ChartID, history[1].Meta.ChartID)
	assert.Equal(t, types.ChartBar, history[1].Meta.ChartType)
}

func TestChatOffTopicRefused(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "What's the weather like today?",
		SessionID: "s1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := chatResponse(t, rec)
	assert.Empty(t, resp.ChartID)
	assert.NotEmpty(t, resp.Response)
}

func TestChatInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{bad"))
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatMissingSessionID(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatStyleChangeReusesPreviousChart(t *testing.T) {
	srv := newTestServer(t)

	first := chatResponse(t, doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: Q1=100, Q2=150, Q3=200",
		SessionID: "s1",
	}))
	require.NotEmpty(t, first.ChartID)

	second := chatResponse(t, doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Make it BNR style",
		SessionID: "s1",
	}))
	require.NotEmpty(t, second.ChartID)
	assert.NotEqual(t, first.ChartID, second.ChartID)
	assert.Equal(t, types.SchemeBNR, second.ColorScheme)
}

func TestChatDetectedSchemePersistsAcrossSessions(t *testing.T) {
	srv := newTestServer(t)

	first := chatResponse(t, doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart the news segments in yellow: A=1, B=2",
		SessionID: "s1",
	}))
	assert.Equal(t, types.SchemeBNR, first.ColorScheme)

	// A different session with a neutral message inherits the preference.
	second := chatResponse(t, doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: X=1, Y=2",
		SessionID: "s2",
	}))
	assert.Equal(t, types.SchemeBNR, second.ColorScheme)
}

func TestChatSessionStyleBeatsPersistentPreference(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.preference.Set(types.SchemeBNR))
	require.NoError(t, srv.store.SetStyle("s1", types.SchemeFD))

	resp := chatResponse(t, doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: A=1, B=2",
		SessionID: "s1",
	}))
	assert.Equal(t, types.SchemeFD, resp.ColorScheme)
}

func TestChatResolverUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.resolver = failingResolver{}

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: A=1, B=2",
		SessionID: "s1",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClearChat(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: A=1, B=2",
		SessionID: "s1",
	})

	rec := doJSON(t, srv, http.MethodDelete, "/api/chat/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	history, err := srv.store.History("s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, resolver.Input, []types.Message) (types.ChartRecord, error) {
	return types.ChartRecord{}, fmt.Errorf("strategy down")
}
