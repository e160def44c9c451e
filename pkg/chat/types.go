// Package chat defines the data contract between the knowledge/composition
// core and the layers around it: the transport, the external intent
// classifier, and the external language model.
package chat

import (
	"fmt"
	"time"
)

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Intent is the closed set of utterance classifications the composer
// dispatches on. It arrives from an external classifier and is treated as
// opaque beyond its value.
type Intent string

// Supported intents.
const (
	IntentFAQ             Intent = "faq"
	IntentTroubleshooting Intent = "troubleshooting"
	IntentOnboarding      Intent = "onboarding"
	IntentProduct         Intent = "product"
	IntentGeneral         Intent = "general"
)

// Valid reports whether the intent is one of the supported values.
func (i Intent) Valid() bool {
	switch i {
	case IntentFAQ, IntentTroubleshooting, IntentOnboarding, IntentProduct, IntentGeneral:
		return true
	}
	return false
}

// ParseIntent converts a raw classifier label into an Intent.
// Unknown labels map to IntentGeneral rather than failing, so a drifting
// upstream classifier degrades to the generic formatting path.
func ParseIntent(s string) Intent {
	if in := Intent(s); in.Valid() {
		return in
	}
	return IntentGeneral
}

// Classification is the output of the external intent classifier for one
// user utterance, plus follow-up hints derived from the previous turn.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`

	// IsFollowUp is true when the utterance continues the previous topic.
	IsFollowUp     bool   `json:"is_follow_up,omitempty"`
	PreviousIntent Intent `json:"previous_intent,omitempty"`
}

// Draft is the raw candidate reply produced by the external language model
// before composition. Content may be empty when the upstream call failed.
type Draft struct {
	Content string        `json:"content"`
	Model   string        `json:"model,omitempty"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// ErrorKind classifies an upstream failure so the composer can render a
// canned, user-facing explanation instead of propagating it.
type ErrorKind string

// Upstream failure taxonomy.
const (
	ErrorTimeout            ErrorKind = "timeout"
	ErrorServiceUnavailable ErrorKind = "service_unavailable"
	ErrorRateLimit          ErrorKind = "rate_limit"
	ErrorInvalidInput       ErrorKind = "invalid_input"
	ErrorUnknown            ErrorKind = "unknown"
)

// Normalize maps unrecognized kinds to ErrorUnknown.
func (k ErrorKind) Normalize() ErrorKind {
	switch k {
	case ErrorTimeout, ErrorServiceUnavailable, ErrorRateLimit, ErrorInvalidInput:
		return k
	}
	return ErrorUnknown
}

// ResponseLength is a user display preference for reply verbosity.
type ResponseLength string

// Supported response lengths.
const (
	LengthShort    ResponseLength = "short"
	LengthMedium   ResponseLength = "medium"
	LengthDetailed ResponseLength = "detailed"
)

// Valid reports whether the length is a supported preference value.
func (l ResponseLength) Valid() bool {
	switch l {
	case LengthShort, LengthMedium, LengthDetailed:
		return true
	}
	return false
}

// ParseResponseLength validates a raw preference string.
func ParseResponseLength(s string) (ResponseLength, error) {
	if l := ResponseLength(s); l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("chat: invalid response length %q", s)
}
