package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/internal/middleware"
	"github.com/irieemon/design-matrix-app-sub016/internal/models"
	"github.com/irieemon/design-matrix-app-sub016/internal/services"
)

// IdeaRequest represents the request body for submitting an idea.
type IdeaRequest struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id,omitempty"`
	Content       string `json:"content"`
}

// IdeaResponse represents a stored idea.
type IdeaResponse struct {
	ID            string `json:"id"`
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
}

// IdeaListResponse represents the response for listing a session's ideas.
type IdeaListResponse struct {
	SessionID string         `json:"session_id"`
	Count     int            `json:"count"`
	Ideas     []IdeaResponse `json:"ideas"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// IdeaHandler handles idea submission endpoints. The service may be nil
// when the deployment runs without persistence; requests then get a 503.
type IdeaHandler struct {
	service services.IdeaService
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(svc services.IdeaService) *IdeaHandler {
	return &IdeaHandler{service: svc}
}

// Create handles POST /api/v1/ideas requests. Rate limiting has already
// happened in the middleware chain by the time this runs.
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "idea storage is not configured",
			Code:  "STORAGE_UNAVAILABLE",
		})
		return
	}

	var req IdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	participantID := req.ParticipantID
	if participantID == "" {
		participantID = middleware.GetParticipantID(r.Context())
	}

	idea, err := h.service.Create(r.Context(), services.CreateIdeaRequest{
		SessionID:     req.SessionID,
		ParticipantID: participantID,
		Content:       req.Content,
	})
	if err != nil {
		status, errResp := mapIdeaError(err)
		writeJSON(w, status, errResp)
		return
	}

	writeJSON(w, http.StatusCreated, toIdeaResponse(idea))
}

// List handles GET /api/v1/ideas?session_id= requests.
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "idea storage is not configured",
			Code:  "STORAGE_UNAVAILABLE",
		})
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "session_id query parameter is required",
			Code:  "EMPTY_SESSION_ID",
		})
		return
	}

	ideas, err := h.service.ListBySession(r.Context(), sessionID)
	if err != nil {
		status, errResp := mapIdeaError(err)
		writeJSON(w, status, errResp)
		return
	}

	resp := IdeaListResponse{
		SessionID: sessionID,
		Count:     len(ideas),
		Ideas:     make([]IdeaResponse, 0, len(ideas)),
	}
	for i := range ideas {
		resp.Ideas = append(resp.Ideas, toIdeaResponse(&ideas[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func toIdeaResponse(idea *models.Idea) IdeaResponse {
	return IdeaResponse{
		ID:            idea.ID,
		SessionID:     idea.SessionID,
		ParticipantID: idea.ParticipantID,
		Content:       idea.Content,
		CreatedAt:     idea.CreatedAt.Format(time.RFC3339),
	}
}

// mapIdeaError maps service errors to HTTP status codes and error responses.
func mapIdeaError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrEmptySessionID):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "EMPTY_SESSION_ID",
		}
	case errors.Is(err, models.ErrEmptyParticipantID):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "EMPTY_PARTICIPANT_ID",
		}
	case errors.Is(err, models.ErrEmptyContent):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "EMPTY_CONTENT",
		}
	case errors.Is(err, models.ErrIdeaNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "IDEA_NOT_FOUND",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		}
	}
}
