package handlers

import (
	"net/http"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
)

// StatusResponse represents a participant's rate limit standing.
type StatusResponse struct {
	ParticipantID string          `json:"participant_id"`
	Limit         int             `json:"limit"`
	Decision      limits.Decision `json:"decision"`
}

// ResetResponse represents the response for an administrative reset.
type ResetResponse struct {
	ParticipantID string `json:"participant_id"`
	Status        string `json:"status"`
}

// ClearSessionResponse represents the response for an administrative
// session clear.
type ClearSessionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// LimitsHandler handles rate limit status and administrative endpoints.
type LimitsHandler struct {
	engine *limits.Engine
	limit  int
	window time.Duration
}

// NewLimitsHandler creates a new LimitsHandler.
func NewLimitsHandler(engine *limits.Engine, limit int, window time.Duration) *LimitsHandler {
	return &LimitsHandler{engine: engine, limit: limit, window: window}
}

// Status handles GET /api/v1/limits/{participantID} requests. Reading
// the standing never consumes quota.
func (h *LimitsHandler) Status(w http.ResponseWriter, r *http.Request, participantID string) {
	decision := h.engine.Status(limits.IdeaKey(participantID), h.limit, h.window)

	writeJSON(w, http.StatusOK, StatusResponse{
		ParticipantID: participantID,
		Limit:         h.limit,
		Decision:      decision,
	})
}

// Reset handles POST /api/v1/admin/limits/{participantID}/reset
// requests. The participant's window, violations and any active block
// are cleared in one operation.
func (h *LimitsHandler) Reset(w http.ResponseWriter, r *http.Request, participantID string) {
	h.engine.Reset(limits.IdeaKey(participantID))

	writeJSON(w, http.StatusOK, ResetResponse{
		ParticipantID: participantID,
		Status:        "reset",
	})
}

// ClearSession handles DELETE /api/v1/admin/sessions/{id} requests.
// Every seat in the session is released; participants' rate state is
// left untouched.
func (h *LimitsHandler) ClearSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.engine.ClearPool(sessionID)

	writeJSON(w, http.StatusOK, ClearSessionResponse{
		SessionID: sessionID,
		Status:    "cleared",
	})
}
