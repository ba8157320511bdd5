package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/chart-agent/internal/types"
)

func TestGetChartServesRenderedFiles(t *testing.T) {
	srv := newTestServer(t)

	resp := chatResponse(t, doJSON(t, srv, http.MethodPost, "/api/chat", types.ChatRequest{
		Message:   "Chart this: A=1, B=2",
		SessionID: "s1",
	}))
	require.NotEmpty(t, resp.ChartID)

	for _, tc := range []struct {
		path        string
		contentType string
	}{
		{"/charts/" + resp.ChartID + ".png", "image/png"},
		{"/charts/" + resp.ChartID + ".svg", "image/svg+xml"},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"), tc.path)
		assert.NotZero(t, rec.Body.Len(), tc.path)
	}
}

func TestGetChartUnknownID(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/charts/0b9af5c6-93e5-4bb0-a9c0-3b1a64a3a1f0.png", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetChartRejectsBadFilenames(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/charts/notauuid.png",
		"/charts/chart.txt",
		"/charts/..%2Fsessions.json",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
