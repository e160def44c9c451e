package composer

import (
	"strings"

	"github.com/concierge-chat/concierge/pkg/chat"
)

// enhancementPrefixLen is how much of a knowledge snippet is checked against
// the draft before appending it. A simple substring-prefix heuristic, not
// full deduplication.
const enhancementPrefixLen = 60

// composeGeneral is the formatting pipeline for LLM-backed replies that have
// no structured branch payload. Order: truncate the draft, prepend a
// follow-up prefix, append the per-intent contextual notice, append a
// knowledge snippet when it adds something, then personalize.
func (c *Composer) composeGeneral(req Request) chat.Response {
	if req.Draft.Content == "" {
		return c.ComposeFallback(req)
	}

	content := truncate(req.Draft.Content, c.maxChars)

	if req.Classification.IsFollowUp {
		if prefix, ok := followUpPrefixes[req.Classification.PreviousIntent]; ok {
			content = prefix + content
		}
	}

	if notice, ok := intentNotices[req.Classification.Intent]; ok {
		content += "\n\n" + notice
	}

	content = enhanceWithKnowledge(content, req)
	content = personalize(content, req)

	model := req.Draft.Model
	if model == "" {
		model = "llm"
	}

	return chat.Response{
		Content:     content,
		Metadata:    metadata(req, model, req.Classification.Confidence),
		Suggestions: capSuggestions(intentSuggestions[chat.IntentGeneral]),
	}
}

// enhanceWithKnowledge appends the top knowledge snippet unless its opening
// is already substantively present in the draft.
func enhanceWithKnowledge(content string, req Request) string {
	if len(req.Matches) == 0 {
		return content
	}

	snippet := req.Matches[0].Entry.Answer
	prefix := snippet
	if len(prefix) > enhancementPrefixLen {
		prefix = prefix[:enhancementPrefixLen]
	}
	if strings.Contains(content, prefix) {
		return content
	}

	return content + "\n\nFrom the knowledge base: " + snippet
}

// personalize applies the user's response-length preference and the
// welcome-back greeting for returning sessions.
func personalize(content string, req Request) string {
	ctx := req.Context
	if ctx == nil {
		return content
	}

	if ctx.Preferences != nil {
		switch ctx.Preferences.ResponseLength {
		case chat.LengthShort:
			content = firstSentences(content, 2)
		case chat.LengthDetailed:
			if bg, ok := backgroundInfo[req.Classification.Intent]; ok {
				content += "\n\n**Background Information**\n" + bg
			}
			content += relatedConcepts(content)
		}
	}

	switch {
	case len(ctx.Messages) > 10:
		content = welcomeBackLong + content
	case len(ctx.Messages) > 5:
		content = welcomeBackShort + content
	}

	return content
}

// relatedConcepts returns up to three canned concept lines triggered by
// keyword presence in the content.
func relatedConcepts(content string) string {
	lower := strings.ToLower(content)

	var b strings.Builder
	fired := 0
	for _, trig := range conceptTriggers {
		if fired == 3 {
			break
		}
		if strings.Contains(lower, trig.keyword) {
			if fired == 0 {
				b.WriteString("\n\n**Related Concepts**")
			}
			b.WriteString("\n- ")
			b.WriteString(trig.line)
			fired++
		}
	}
	return b.String()
}
