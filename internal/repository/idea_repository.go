// Package repository handles data persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/irieemon/design-matrix-app-sub016/internal/database"
	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
	"github.com/irieemon/design-matrix-app-sub016/internal/models"
)

// IdeaRepository defines the interface for idea persistence operations.
type IdeaRepository interface {
	// Create stores a new idea and returns the created entity.
	Create(ctx context.Context, create *models.IdeaCreate) (*models.Idea, error)

	// ListBySession retrieves all ideas for a session, newest first.
	ListBySession(ctx context.Context, sessionID string) ([]models.Idea, error)

	// Delete removes an idea by its ID.
	Delete(ctx context.Context, id string) error

	// HealthCheck verifies the repository is healthy.
	HealthCheck(ctx context.Context) error
}

// PostgresIdeaRepository implements IdeaRepository using PostgreSQL.
type PostgresIdeaRepository struct {
	pool *database.Pool
}

// NewPostgresIdeaRepository creates a new PostgreSQL-backed idea repository.
func NewPostgresIdeaRepository(pool *database.Pool) *PostgresIdeaRepository {
	return &PostgresIdeaRepository{pool: pool}
}

// Create stores a new idea.
func (r *PostgresIdeaRepository) Create(ctx context.Context, create *models.IdeaCreate) (*models.Idea, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("idea_create", time.Since(start)) }()

	query := `
		INSERT INTO ideas (id, session_id, participant_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, participant_id, content, created_at
	`

	var idea models.Idea
	err := r.pool.QueryRow(ctx, query, uuid.New().String(), create.SessionID, create.ParticipantID, create.Content).Scan(
		&idea.ID,
		&idea.SessionID,
		&idea.ParticipantID,
		&idea.Content,
		&idea.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	return &idea, nil
}

// ListBySession retrieves all ideas for a session, newest first.
func (r *PostgresIdeaRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Idea, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("idea_list", time.Since(start)) }()

	query := `
		SELECT id, session_id, participant_id, content, created_at
		FROM ideas
		WHERE session_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []models.Idea
	for rows.Next() {
		var idea models.Idea
		if err := rows.Scan(&idea.ID, &idea.SessionID, &idea.ParticipantID, &idea.Content, &idea.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}

	return ideas, nil
}

// Delete removes an idea by its ID.
func (r *PostgresIdeaRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("idea_delete", time.Since(start)) }()

	tag, err := r.pool.Exec(ctx, `DELETE FROM ideas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrIdeaNotFound
	}
	return nil
}

// HealthCheck verifies the repository is healthy.
func (r *PostgresIdeaRepository) HealthCheck(ctx context.Context) error {
	return r.pool.HealthCheck(ctx)
}

// IsNotFound reports whether the error marks a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrIdeaNotFound) || errors.Is(err, pgx.ErrNoRows)
}
