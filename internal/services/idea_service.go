// Package services contains business logic.
package services

import (
	"context"

	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
	"github.com/irieemon/design-matrix-app-sub016/internal/models"
	"github.com/irieemon/design-matrix-app-sub016/internal/repository"
)

// CreateIdeaRequest represents the input for submitting an idea.
type CreateIdeaRequest struct {
	SessionID     string
	ParticipantID string
	Content       string
}

// IdeaService defines the interface for idea operations. Rate limiting
// happens before the service is reached; by the time Create runs the
// submission has already been admitted.
type IdeaService interface {
	Create(ctx context.Context, req CreateIdeaRequest) (*models.Idea, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.Idea, error)
}

// IdeaServiceImpl implements IdeaService.
type IdeaServiceImpl struct {
	repo repository.IdeaRepository
}

// NewIdeaService creates a new IdeaService instance.
func NewIdeaService(repo repository.IdeaRepository) *IdeaServiceImpl {
	return &IdeaServiceImpl{repo: repo}
}

// Create validates and stores a new idea.
func (s *IdeaServiceImpl) Create(ctx context.Context, req CreateIdeaRequest) (*models.Idea, error) {
	create := &models.IdeaCreate{
		SessionID:     req.SessionID,
		ParticipantID: req.ParticipantID,
		Content:       req.Content,
	}
	if err := create.Validate(); err != nil {
		return nil, err
	}

	idea, err := s.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	metrics.RecordIdeaCreated()
	return idea, nil
}

// ListBySession returns the session's ideas.
func (s *IdeaServiceImpl) ListBySession(ctx context.Context, sessionID string) ([]models.Idea, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	return s.repo.ListBySession(ctx, sessionID)
}
