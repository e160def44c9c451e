// Package session tracks per-conversation state for the chat surface: the
// message history, the current intent, and the counters the composer reads
// (onboarding step, troubleshooting escalation). Contexts are owned by the
// session layer; the composer only ever reads them.
package session

import (
	"time"

	"github.com/concierge-chat/concierge/pkg/chat"
)

// TroubleshootingState tracks repeated failed troubleshooting attempts
// within a session. The orchestrating caller increments EscalationLevel;
// the composer uses it to decide on a human-support handoff.
type TroubleshootingState struct {
	EscalationLevel int `json:"escalation_level"`
}

// Preferences holds user display preferences.
type Preferences struct {
	ResponseLength chat.ResponseLength `json:"response_length,omitempty"`
}

// Context is the mutable per-session record. It is created empty at session
// start, mutated turn-by-turn by the caller, and discarded when the session
// ends. It is never persisted by the core.
type Context struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time

	Messages        []chat.Message
	CurrentIntent   chat.Intent
	OnboardingStep  int
	Troubleshooting *TroubleshootingState
	Preferences     *Preferences
}

// Store manages session lifecycle. Implementations must be safe for
// concurrent use across sessions; callers serialize writes within a session.
type Store interface {
	// GetOrCreate returns an existing context or creates a new one.
	// The bool return indicates whether the context was newly created.
	GetOrCreate(id string) (*Context, bool)

	// Get returns the context for the given id, or nil if none exists.
	Get(id string) *Context

	// Touch updates the context's LastActiveAt timestamp.
	Touch(id string)

	// Delete removes the context for the given id.
	Delete(id string)

	// Prune removes contexts idle longer than maxIdle and returns the
	// number removed.
	Prune(maxIdle time.Duration) int

	// Len returns the number of active contexts.
	Len() int

	// Range calls fn for each context. If fn returns false, iteration stops.
	Range(fn func(*Context) bool)
}

// TranscriptStore is the narrow persistence interface for durable message
// transcripts. The in-memory core never depends on it; the gateway appends
// to it when one is configured.
type TranscriptStore interface {
	// Append records a message for a session.
	Append(sessionID string, msg chat.Message) error

	// Recent returns the n most recent messages in chronological order.
	Recent(sessionID string, n int) ([]chat.Message, error)

	// Purge removes all transcript data for a session.
	Purge(sessionID string) error
}
