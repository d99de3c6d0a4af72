// Package models contains domain models and entities.
package models

import (
	"errors"
	"time"
)

// Idea represents one idea submitted to a collaboration session.
type Idea struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	ParticipantID string    `json:"participant_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// IdeaCreate represents the data needed to create a new idea.
type IdeaCreate struct {
	SessionID     string
	ParticipantID string
	Content       string
}

// Validation errors
var (
	ErrEmptySessionID     = errors.New("session id cannot be empty")
	ErrEmptyParticipantID = errors.New("participant id cannot be empty")
	ErrEmptyContent       = errors.New("idea content cannot be empty")
	ErrIdeaNotFound       = errors.New("idea not found")
)

// Validate checks required fields. Content moderation is handled
// upstream; only presence is enforced here.
func (c *IdeaCreate) Validate() error {
	if c.SessionID == "" {
		return ErrEmptySessionID
	}
	if c.ParticipantID == "" {
		return ErrEmptyParticipantID
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	return nil
}
