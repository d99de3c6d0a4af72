package limits

import (
	"os"
	"sync"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

// Reference policy. Limit, window and capacity can be overridden through
// configuration at the call site; the engine's contracts do not depend
// on where the numbers come from.
const (
	// IdeaSubmissionLimit is the number of idea submissions allowed per
	// participant per window.
	IdeaSubmissionLimit = 6

	// IdeaSubmissionWindow is the rate window for idea submissions.
	IdeaSubmissionWindow = 60 * time.Second

	// SessionCapacity is the maximum number of concurrent participants
	// in one collaboration session.
	SessionCapacity = 50

	violationThreshold    = 3
	blockDuration         = 5 * time.Minute
	staleWindowMultiplier = 10
	sweepInterval         = 5 * time.Minute
)

// IdeaKey scopes a participant's idea-submission rate state.
func IdeaKey(participantID string) string { return "idea:" + participantID }

// CheckIdeaSubmission accounts one idea submission against the
// reference limit for the participant.
func (e *Engine) CheckIdeaSubmission(participantID string) Decision {
	return e.Check(IdeaKey(participantID), IdeaSubmissionLimit, IdeaSubmissionWindow)
}

// CheckParticipantJoin admits the participant into the session up to the
// reference capacity.
func (e *Engine) CheckParticipantJoin(sessionID, participantID string) Decision {
	return e.Join(sessionID, participantID, SessionCapacity)
}

// GetStatus reports the participant's idea-submission standing without
// consuming quota.
func (e *Engine) GetStatus(participantID string) Decision {
	return e.Status(IdeaKey(participantID), IdeaSubmissionLimit, IdeaSubmissionWindow)
}

// ResetParticipant clears the participant's idea-submission state:
// window, violations and block in one operation.
func (e *Engine) ResetParticipant(participantID string) {
	e.Reset(IdeaKey(participantID))
}

// ClearSession removes every seat in the session's pool.
func (e *Engine) ClearSession(sessionID string) {
	e.ClearPool(sessionID)
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns a process-wide engine for call sites that cannot
// receive one as a dependency. Prefer constructing an Engine explicitly
// and threading it through.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(logger.New(os.Stdout, "info"))
	})
	return defaultEngine
}
