package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
)

// CheckFunc evaluates a rate decision for an identifier.
type CheckFunc func(identifier string) limits.Decision

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	Limit int // Advertised in X-RateLimit-Limit
}

// RateLimit returns a middleware that gates requests through the abuse
// engine. The identifier is the participant id when the request carries
// one, falling back to the client IP so anonymous traffic is still
// bounded. Denials are rendered as 429 with the engine's Decision as
// the body — the engine itself never produces a response.
func RateLimit(check CheckFunc, cfg RateLimitConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := rateIdentifier(r)

			decision := check(identifier)
			setRateLimitHeaders(w, cfg.Limit, decision)

			if !decision.Allowed {
				if decision.Reason == limits.ReasonBlocked {
					metrics.RecordViolationBlock()
				} else {
					metrics.RecordRateLimited()
				}
				writeDecision(w, http.StatusTooManyRequests, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateIdentifier picks the rate key for the request: participant id
// first, client IP otherwise.
func rateIdentifier(r *http.Request) string {
	if id := GetParticipantID(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(HeaderXParticipantID); id != "" {
		return id
	}
	if ip := GetClientIP(r.Context()); ip != "" {
		return "ip:" + ip
	}
	return "ip:" + extractIPFromAddr(r.RemoteAddr)
}

// setRateLimitHeaders sets the rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, limit int, d limits.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

	if d.ResetIn > 0 {
		resetTime := time.Now().Add(d.ResetIn).Unix()
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))
	}

	if !d.Allowed && d.RetryAfter > 0 {
		retrySeconds := int(d.RetryAfter.Seconds())
		if retrySeconds < 1 {
			retrySeconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
	}
}

// writeDecision serializes a Decision as the response body.
func writeDecision(w http.ResponseWriter, status int, d limits.Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(d)
}
