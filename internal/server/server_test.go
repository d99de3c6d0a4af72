package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irieemon/design-matrix-app-sub016/internal/config"
	"github.com/irieemon/design-matrix-app-sub016/internal/handlers"
	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:      "test",
			LogLevel: "error",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0, // Let the OS assign a port
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Limits: config.LimitsConfig{
			IdeaRequests:    6,
			IdeaWindow:      time.Minute,
			SessionCapacity: 2,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	var buf bytes.Buffer
	log := logger.New(&buf, "error")

	engine := limits.NewEngine(log)
	t.Cleanup(engine.Destroy)

	return New(testConfig(), log, engine)
}

func startTestServer(t *testing.T) *Server {
	t.Helper()

	srv := newTestServer(t)
	go func() { _ = srv.Start() }()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	require.Eventually(t, func() bool { return srv.Addr() != "" }, time.Second, 5*time.Millisecond)
	return srv
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)

	assert.NotNil(t, srv)
	assert.NotNil(t, srv.HealthHandler())
	assert.NotNil(t, srv.Engine())
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := newTestServer(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	require.Eventually(t, func() bool { return srv.IsRunning() }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	assert.NoError(t, err)
	assert.False(t, srv.IsRunning())
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := startTestServer(t)

	resp := doJSON(t, http.MethodGet, "http://"+srv.Addr()+"/health", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health handlers.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
}

func TestServer_SessionFlow(t *testing.T) {
	srv := startTestServer(t)
	base := "http://" + srv.Addr()

	// Fill the 2-seat session.
	for _, p := range []string{"p1", "p2"} {
		resp := doJSON(t, http.MethodPost, base+"/api/v1/sessions/s1/join",
			fmt.Sprintf(`{"participant_id":%q}`, p))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// A third participant is turned away.
	resp := doJSON(t, http.MethodPost, base+"/api/v1/sessions/s1/join", `{"participant_id":"p3"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var denial map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&denial))
	assert.Equal(t, false, denial["allowed"])

	// Leaving frees the seat for them.
	leave := doJSON(t, http.MethodPost, base+"/api/v1/sessions/s1/leave", `{"participant_id":"p1"}`)
	leave.Body.Close()
	require.Equal(t, http.StatusNoContent, leave.StatusCode)

	retry := doJSON(t, http.MethodPost, base+"/api/v1/sessions/s1/join", `{"participant_id":"p3"}`)
	retry.Body.Close()
	assert.Equal(t, http.StatusOK, retry.StatusCode)
}

func TestServer_IdeaSubmissionRateLimited(t *testing.T) {
	srv := startTestServer(t)
	base := "http://" + srv.Addr()

	// Without storage configured the handler answers 503, but the rate
	// gate in front of it still accounts each attempt.
	var last *http.Response
	for i := 0; i < 7; i++ {
		if last != nil {
			last.Body.Close()
		}
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
			base+"/api/v1/ideas", strings.NewReader(`{"session_id":"s1","content":"x"}`))
		require.NoError(t, err)
		req.Header.Set("X-Participant-ID", "p1")

		last, err = http.DefaultClient.Do(req)
		require.NoError(t, err)

		if i < 6 {
			assert.Equal(t, http.StatusServiceUnavailable, last.StatusCode)
		}
	}
	defer last.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	assert.Equal(t, "6", last.Header.Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, last.Header.Get("Retry-After"))
}

func TestServer_LimitStatusAndReset(t *testing.T) {
	srv := startTestServer(t)
	base := "http://" + srv.Addr()

	// Consume two submissions.
	for i := 0; i < 2; i++ {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
			base+"/api/v1/ideas", strings.NewReader(`{"session_id":"s1","content":"x"}`))
		require.NoError(t, err)
		req.Header.Set("X-Participant-ID", "p1")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	status := doJSON(t, http.MethodGet, base+"/api/v1/limits/p1", "")
	defer status.Body.Close()
	require.Equal(t, http.StatusOK, status.StatusCode)

	var st handlers.StatusResponse
	require.NoError(t, json.NewDecoder(status.Body).Decode(&st))
	assert.Equal(t, 4, st.Decision.Remaining)

	reset := doJSON(t, http.MethodPost, base+"/api/v1/admin/limits/p1/reset", "")
	reset.Body.Close()
	require.Equal(t, http.StatusOK, reset.StatusCode)

	after := doJSON(t, http.MethodGet, base+"/api/v1/limits/p1", "")
	defer after.Body.Close()

	var fresh handlers.StatusResponse
	require.NoError(t, json.NewDecoder(after.Body).Decode(&fresh))
	assert.Equal(t, 6, fresh.Decision.Remaining)
}

func TestServer_AdminClearSession(t *testing.T) {
	srv := startTestServer(t)
	base := "http://" + srv.Addr()

	for _, p := range []string{"p1", "p2"} {
		resp := doJSON(t, http.MethodPost, base+"/api/v1/sessions/s1/join",
			fmt.Sprintf(`{"participant_id":%q}`, p))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	cleared := doJSON(t, http.MethodDelete, base+"/api/v1/admin/sessions/s1", "")
	cleared.Body.Close()
	require.Equal(t, http.StatusOK, cleared.StatusCode)

	resp := doJSON(t, http.MethodPost, base+"/api/v1/sessions/s1/join", `{"participant_id":"p3"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := startTestServer(t)

	resp := doJSON(t, http.MethodGet, "http://"+srv.Addr()+"/metrics", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
