package composer

import (
	"fmt"
	"strings"

	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/pkg/chat"
)

// Plan is one pricing tier.
type Plan struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features,omitempty"`
}

// Specifications groups technical bullet lists. Empty lists omit their block.
type Specifications struct {
	Requirements  []string `json:"requirements,omitempty"`
	Compatibility []string `json:"compatibility,omitempty"`
	Performance   []string `json:"performance,omitempty"`
}

// ProductInfo is the structured record the product branch renders. Each
// section is omitted entirely when its source field is absent.
type ProductInfo struct {
	Name           string          `json:"name"`
	Summary        string          `json:"summary,omitempty"`
	Plans          []Plan          `json:"plans,omitempty"`
	Availability   string          `json:"availability,omitempty"`
	Specifications *Specifications `json:"specifications,omitempty"`
}

// composeProduct renders the product record section by section: pricing,
// availability (through the fixed status vocabulary), and specifications.
func (c *Composer) composeProduct(req Request) chat.Response {
	info := req.Product

	var b strings.Builder
	if info.Summary != "" {
		b.WriteString(info.Summary)
	} else if info.Name != "" {
		fmt.Fprintf(&b, "Here's what I can tell you about %s.", info.Name)
	}

	if len(info.Plans) > 0 {
		b.WriteString("\n\n**Pricing**")
		for _, plan := range info.Plans {
			fmt.Fprintf(&b, "\n- **%s** — %s", plan.Name, plan.Price)
			for _, feat := range plan.Features {
				b.WriteString("\n    - ")
				b.WriteString(feat)
			}
		}
	}

	if info.Availability != "" {
		label, ok := availabilityLabels[info.Availability]
		if !ok {
			label = info.Availability
		}
		fmt.Fprintf(&b, "\n\n**Availability:** %s", label)
	}

	if specs := info.Specifications; specs != nil {
		writeSpecList(&b, "Requirements", specs.Requirements)
		writeSpecList(&b, "Compatibility", specs.Compatibility)
		writeSpecList(&b, "Performance", specs.Performance)
	}

	nextSteps := categoryNextSteps[knowledge.CategoryProduct]
	links := categoryRelatedLinks[knowledge.CategoryProduct]

	meta := metadata(req, "template", req.Classification.Confidence)
	meta.NextSteps = nextSteps
	meta.RelatedLinks = links

	return chat.Response{
		Content:      strings.TrimLeft(b.String(), "\n"),
		Metadata:     meta,
		Suggestions:  capSuggestions(intentSuggestions[chat.IntentProduct]),
		NextSteps:    nextSteps,
		RelatedLinks: links,
	}
}

func writeSpecList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n**%s**", title)
	for _, item := range items {
		b.WriteString("\n- ")
		b.WriteString(item)
	}
}
