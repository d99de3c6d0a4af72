package limits

import (
	"encoding/json"
	"time"
)

// Decision is the uniform result of every engine check. It carries no
// internal engine state; translating a denial into a response (status
// code, Retry-After header, message copy) is entirely up to the caller.
type Decision struct {
	Allowed    bool          // Whether the action may proceed
	Remaining  int           // Quota or seats left after this check
	ResetIn    time.Duration // Time until the current window rolls over
	RetryAfter time.Duration // Suggested wait before retrying (denials only)
	Reason     string        // Human-readable denial reason (denials only)
}

// decisionJSON is the wire shape: durations become integer milliseconds,
// and retryAfter/reason appear only on denials.
type decisionJSON struct {
	Allowed    bool   `json:"allowed"`
	Remaining  int    `json:"remaining"`
	ResetIn    int64  `json:"resetIn"`
	RetryAfter *int64 `json:"retryAfter,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// MarshalJSON serializes the decision in the shape exposed to HTTP
// clients.
func (d Decision) MarshalJSON() ([]byte, error) {
	out := decisionJSON{
		Allowed:   d.Allowed,
		Remaining: d.Remaining,
		ResetIn:   d.ResetIn.Milliseconds(),
		Reason:    d.Reason,
	}
	if !d.Allowed && d.RetryAfter > 0 {
		ms := d.RetryAfter.Milliseconds()
		out.RetryAfter = &ms
	}
	return json.Marshal(out)
}
