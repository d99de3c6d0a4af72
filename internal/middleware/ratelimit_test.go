package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newTestEngine(t *testing.T) *limits.Engine {
	t.Helper()
	e := limits.NewEngine(logger.New(io.Discard, "error"))
	t.Cleanup(e.Destroy)
	return e
}

func TestRateLimit(t *testing.T) {
	t.Run("allows requests under the limit", func(t *testing.T) {
		e := newTestEngine(t)
		h := RateLimit(e.CheckIdeaSubmission, RateLimitConfig{Limit: 6})(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil)
		req.Header.Set(HeaderXParticipantID, "p1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "6", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("denies over-limit requests with 429 and the decision body", func(t *testing.T) {
		e := newTestEngine(t)
		h := RateLimit(e.CheckIdeaSubmission, RateLimitConfig{Limit: 6})(okHandler())

		var rec *httptest.ResponseRecorder
		for i := 0; i < 7; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil)
			req.Header.Set(HeaderXParticipantID, "p1")
			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, req)
		}

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["allowed"])
		assert.Contains(t, body["reason"], "Rate limit exceeded")
		assert.NotZero(t, body["retryAfter"])
	})

	t.Run("participants are limited independently", func(t *testing.T) {
		e := newTestEngine(t)
		h := RateLimit(e.CheckIdeaSubmission, RateLimitConfig{Limit: 6})(okHandler())

		for i := 0; i < 7; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil)
			req.Header.Set(HeaderXParticipantID, "p1")
			h.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil)
		req.Header.Set(HeaderXParticipantID, "p2")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("falls back to client IP without a participant header", func(t *testing.T) {
		e := newTestEngine(t)
		h := RateLimit(func(id string) limits.Decision {
			return e.Check(id, 1, time.Minute)
		}, RateLimitConfig{Limit: 1})(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil)
		req.RemoteAddr = "203.0.113.9:4242"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}
