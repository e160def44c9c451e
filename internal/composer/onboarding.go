package composer

import (
	"fmt"
	"math"
	"strings"

	"github.com/concierge-chat/concierge/pkg/chat"
)

// Progress bar markers, one per total step.
const (
	progressFilled = "█"
	progressEmpty  = "░"
)

// composeOnboarding renders the supplied step counters as a textual progress
// bar plus either a next-steps block (in progress) or a congratulations
// block (complete). A two-state machine driven entirely by the caller.
func (c *Composer) composeOnboarding(req Request) chat.Response {
	ob := req.Onboarding
	current, total := ob.CurrentStep, ob.TotalSteps
	if total < 1 {
		total = 1
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}

	pct := int(math.Round(float64(current) / float64(total) * 100))

	var b strings.Builder
	if req.Draft.Content != "" {
		b.WriteString(truncate(req.Draft.Content, c.maxChars))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "**Setup progress: step %d of %d**\n", current, total)
	b.WriteString(strings.Repeat(progressFilled, current))
	b.WriteString(strings.Repeat(progressEmpty, total-current))
	fmt.Fprintf(&b, " %d%%", pct)

	var nextSteps []string
	if current < total {
		nextSteps = []string{
			fmt.Sprintf("Complete step %d", current+1),
			"Ask me if anything in the current step is unclear",
		}
		b.WriteString("\n\n**Next steps**")
		for _, step := range nextSteps {
			b.WriteString("\n- ")
			b.WriteString(step)
		}
	} else {
		b.WriteString("\n\n🎉 **Setup complete!** The assistant is live on your site. Ask me anything if you want to fine-tune it.")
	}

	meta := metadata(req, "template", req.Classification.Confidence)
	meta.NextSteps = nextSteps

	return chat.Response{
		Content:     b.String(),
		Metadata:    meta,
		Suggestions: capSuggestions(intentSuggestions[chat.IntentOnboarding]),
		NextSteps:   nextSteps,
		Progress: &chat.Progress{
			CurrentStep:          current,
			TotalSteps:           total,
			CompletionPercentage: pct,
		},
	}
}
