package composer

import (
	"fmt"
	"strings"

	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/pkg/chat"
)

// escalationThreshold: above this many failed attempts, offer a human.
const escalationThreshold = 1

// composeTroubleshooting renders the caller-supplied candidate solutions.
// The list arrives already sorted by likelihood; the composer only labels
// the first three tiers and appends everything else unlabeled. When the
// session's escalation level has passed the threshold, a human-support
// notice is appended — the composer never increments the level itself.
func (c *Composer) composeTroubleshooting(req Request) chat.Response {
	var b strings.Builder
	b.WriteString("Here's what I'd try, in order:\n")

	for i, sol := range req.Solutions {
		b.WriteString("\n")
		if i < len(solutionTiers) {
			fmt.Fprintf(&b, "**%s:** %s", solutionTiers[i], sol)
		} else {
			fmt.Fprintf(&b, "- %s", sol)
		}
	}

	escalated := req.Context != nil &&
		req.Context.Troubleshooting != nil &&
		req.Context.Troubleshooting.EscalationLevel > escalationThreshold
	if escalated {
		b.WriteString("\n\n")
		b.WriteString(escalationNotice)
	}

	nextSteps := []string{
		"Try the most likely fix first",
		"Tell me what happened so I can narrow it down",
	}
	if escalated {
		nextSteps = append(nextSteps, "Ask me to connect you with support")
	}

	meta := metadata(req, "template", req.Classification.Confidence)
	meta.NextSteps = nextSteps
	meta.RelatedLinks = categoryRelatedLinks[knowledge.CategoryTroubleshooting]

	return chat.Response{
		Content:      b.String(),
		Metadata:     meta,
		Suggestions:  capSuggestions(intentSuggestions[chat.IntentTroubleshooting]),
		NextSteps:    nextSteps,
		RelatedLinks: categoryRelatedLinks[knowledge.CategoryTroubleshooting],
	}
}
