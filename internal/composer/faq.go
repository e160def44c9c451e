package composer

import (
	"strings"

	"github.com/concierge-chat/concierge/pkg/chat"
)

// noKnowledgeConfidence is reported when a knowledge-answerable question
// found no matches.
const noKnowledgeConfidence = 0.3

// composeFAQ answers from ranked knowledge matches. The top match supplies
// the body; further matches become a "Related Information" block and feed
// the suggestion list. Zero matches produce the dedicated apology response.
func (c *Composer) composeFAQ(req Request) chat.Response {
	if len(req.Matches) == 0 {
		return chat.Response{
			Content:     noKnowledgeBody,
			Metadata:    metadata(req, "knowledge-base", noKnowledgeConfidence),
			Suggestions: capSuggestions(noKnowledgeSuggestions),
		}
	}

	top := req.Matches[0].Entry

	var b strings.Builder
	b.WriteString(top.Answer)

	// Up to 2 additional matched questions as related information.
	if len(req.Matches) > 1 {
		related := req.Matches[1:]
		if len(related) > 2 {
			related = related[:2]
		}
		b.WriteString("\n\n**Related Information**")
		for _, m := range related {
			b.WriteString("\n- ")
			b.WriteString(m.Entry.Question)
		}
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range req.Matches[1:] {
		suggestions = append(suggestions, m.Entry.Question)
	}
	suggestions = append(suggestions, intentSuggestions[chat.IntentFAQ]...)

	nextSteps := categoryNextSteps[top.Category]
	links := categoryRelatedLinks[top.Category]

	meta := metadata(req, "knowledge-base", req.Classification.Confidence)
	meta.NextSteps = nextSteps
	meta.RelatedLinks = links

	return chat.Response{
		Content:      b.String(),
		Metadata:     meta,
		Suggestions:  capSuggestions(suggestions),
		NextSteps:    nextSteps,
		RelatedLinks: links,
	}
}
