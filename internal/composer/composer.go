// Package composer turns a matched knowledge entry or an upstream LLM draft,
// plus the running conversation context, into the final structured reply.
// Every function here is pure over its inputs: no I/O, no stored state, and
// the conversation context is only ever read.
package composer

import (
	"strings"

	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/session"
	"github.com/concierge-chat/concierge/pkg/chat"
)

// maxSuggestions caps every suggestion list.
const maxSuggestions = 3

// DefaultMaxResponseChars bounds the general-pipeline draft length when the
// configuration does not override it.
const DefaultMaxResponseChars = 1500

// Options configures a Composer.
type Options struct {
	// MaxResponseChars truncates LLM drafts on the general path.
	// Zero means DefaultMaxResponseChars.
	MaxResponseChars int
}

// Composer renders responses. It is stateless and safe for concurrent use.
type Composer struct {
	maxChars int
}

// New creates a composer with the given options.
func New(opts Options) *Composer {
	maxChars := opts.MaxResponseChars
	if maxChars <= 0 {
		maxChars = DefaultMaxResponseChars
	}
	return &Composer{maxChars: maxChars}
}

// OnboardingInput carries the externally managed step counters. The composer
// renders them and never mutates them.
type OnboardingInput struct {
	CurrentStep int `json:"current_step"`
	TotalSteps  int `json:"total_steps"`
}

// Request bundles everything one composition turn needs. Fields beyond
// Classification are optional; absent intent-specific payloads route the
// turn through the general formatting pipeline.
type Request struct {
	Draft          chat.Draft
	Classification chat.Classification
	Context        *session.Context
	Matches        []knowledge.Result

	Onboarding *OnboardingInput
	// Solutions is an ordered list of candidate fixes, already sorted by
	// likelihood. The composer trusts this ordering.
	Solutions []string
	Product   *ProductInfo
}

// Compose dispatches on the classified intent. Each intent is a terminal
// formatting mode; the state the branches react to (onboarding counters,
// escalation level) is driven entirely by the caller.
func (c *Composer) Compose(req Request) chat.Response {
	switch req.Classification.Intent {
	case chat.IntentFAQ:
		return c.composeFAQ(req)
	case chat.IntentOnboarding:
		if req.Onboarding != nil {
			return c.composeOnboarding(req)
		}
	case chat.IntentTroubleshooting:
		if len(req.Solutions) > 0 {
			return c.composeTroubleshooting(req)
		}
	case chat.IntentProduct:
		if req.Product != nil {
			return c.composeProduct(req)
		}
	}
	return c.composeGeneral(req)
}

// metadata builds the envelope shared by every branch.
func metadata(req Request, model string, confidence float64) chat.Metadata {
	if req.Draft.Model != "" {
		model = req.Draft.Model
	}
	return chat.Metadata{
		ProcessingTimeMs: req.Draft.Elapsed.Milliseconds(),
		ModelUsed:        model,
		Confidence:       confidence,
		Intent:           req.Classification.Intent,
	}
}

// capSuggestions trims a suggestion list to the global cap.
func capSuggestions(s []string) []string {
	if len(s) > maxSuggestions {
		return s[:maxSuggestions]
	}
	return s
}

// truncate cuts text at max bytes, appending an ellipsis when it had to cut.
// It backs up to the previous space when one is close, so the cut lands on a
// word boundary where possible.
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := text[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "..."
}

// firstSentences returns the first n sentences of text, treating '.', '!',
// and '?' as terminators. Used by the short response-length preference.
func firstSentences(text string, n int) string {
	if n <= 0 {
		return text
	}
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			// Consume runs of terminators ("?!", "...") as one boundary.
			for i+1 < len(text) && (text[i+1] == '.' || text[i+1] == '!' || text[i+1] == '?') {
				i++
			}
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
