package composer

import (
	"github.com/concierge-chat/concierge/pkg/chat"
)

// Confidence and model tags for the degraded paths.
const (
	fallbackConfidence = 0.1
	fallbackModel      = "fallback"
	errorConfidence    = 0.2
	errorModel         = "error-handler"
)

// ComposeError renders an upstream failure as user-facing canned text.
// The detail string is interpolated only for the kinds that allow it
// (invalid_input, unknown); unrecognized kinds normalize to unknown.
func (c *Composer) ComposeError(req Request, kind chat.ErrorKind, detail string) chat.Response {
	tmpl := errorTemplates[kind.Normalize()]

	content := tmpl.message
	if tmpl.interpolate {
		if detail != "" {
			content += ": " + detail
		}
		content += "."
	}

	meta := metadata(req, errorModel, errorConfidence)
	meta.ModelUsed = errorModel
	meta.NextSteps = tmpl.nextSteps

	return chat.Response{
		Content:     content,
		Metadata:    meta,
		Suggestions: capSuggestions(tmpl.suggestions),
		NextSteps:   tmpl.nextSteps,
	}
}

// ComposeFallback is the last resort: a non-empty draft is passed through
// with a low-confidence disclaimer, an empty one is replaced by fully
// canned guidance. Always tagged with confidence 0.1 and model "fallback".
func (c *Composer) ComposeFallback(req Request) chat.Response {
	content := req.Draft.Content
	if content != "" {
		content = truncate(content, c.maxChars) + fallbackDisclaimer
	} else {
		content = fallbackCanned
	}

	meta := metadata(req, fallbackModel, fallbackConfidence)
	meta.ModelUsed = fallbackModel

	return chat.Response{
		Content:     content,
		Metadata:    meta,
		Suggestions: capSuggestions(intentSuggestions[chat.IntentGeneral]),
	}
}
