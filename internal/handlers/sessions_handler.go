package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
	"github.com/irieemon/design-matrix-app-sub016/internal/middleware"
)

// JoinRequest represents the request body for joining a session.
type JoinRequest struct {
	ParticipantID string `json:"participant_id,omitempty"`
}

// JoinResponse represents the response for a successful join.
type JoinResponse struct {
	SessionID     string          `json:"session_id"`
	ParticipantID string          `json:"participant_id"`
	Occupancy     int             `json:"occupancy"`
	Decision      limits.Decision `json:"decision"`
}

// SessionHandler handles session membership endpoints.
type SessionHandler struct {
	engine   *limits.Engine
	capacity int
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(engine *limits.Engine, capacity int) *SessionHandler {
	return &SessionHandler{engine: engine, capacity: capacity}
}

// Join handles POST /api/v1/sessions/{id}/join requests. A full session
// rejects the participant with 409; rejoining an already-admitted
// participant succeeds without consuming a seat.
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request, sessionID string) {
	participantID, ok := h.participant(w, r)
	if !ok {
		return
	}

	decision := h.engine.Join(sessionID, participantID, h.capacity)
	metrics.RecordSessionJoin(decision.Allowed)

	if !decision.Allowed {
		writeJSON(w, http.StatusConflict, decision)
		return
	}

	writeJSON(w, http.StatusOK, JoinResponse{
		SessionID:     sessionID,
		ParticipantID: participantID,
		Occupancy:     h.engine.Occupancy(sessionID),
		Decision:      decision,
	})
}

// Leave handles POST /api/v1/sessions/{id}/leave requests. Leaving a
// session the participant never joined is a no-op.
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request, sessionID string) {
	participantID, ok := h.participant(w, r)
	if !ok {
		return
	}

	h.engine.Leave(sessionID, participantID)
	w.WriteHeader(http.StatusNoContent)
}

// participant resolves the participant id from the request body or the
// X-Participant-ID header, writing a 400 when neither is present.
func (h *SessionHandler) participant(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req JoinRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "invalid request body",
				Code:  "INVALID_REQUEST",
			})
			return "", false
		}
	}

	participantID := req.ParticipantID
	if participantID == "" {
		participantID = middleware.GetParticipantID(r.Context())
	}
	if participantID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "participant id is required",
			Code:  "EMPTY_PARTICIPANT_ID",
		})
		return "", false
	}

	return participantID, true
}
