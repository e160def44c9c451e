package composer_test

import (
	"strings"
	"testing"

	"github.com/concierge-chat/concierge/internal/composer"
	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/session"
	"github.com/concierge-chat/concierge/pkg/chat"
)

func newComposer() *composer.Composer {
	return composer.New(composer.Options{})
}

func match(question, answer string) knowledge.Result {
	return knowledge.Result{
		Entry: knowledge.Entry{
			ID:       "id-" + question,
			Category: knowledge.CategoryFAQ,
			Question: question,
			Answer:   answer,
		},
		Score: 1,
	}
}

func faqRequest(matches ...knowledge.Result) composer.Request {
	return composer.Request{
		Classification: chat.Classification{Intent: chat.IntentFAQ, Confidence: 0.9},
		Matches:        matches,
	}
}

func TestComposeFAQ_TopMatch(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(faqRequest(
		match("How do I reset my password?", "Use the reset link on the sign-in page."),
		match("How do I change my email?", "Open account settings."),
		match("How do I close my account?", "Contact support."),
		match("How do I export data?", "Use the export endpoint."),
	))

	if !strings.HasPrefix(resp.Content, "Use the reset link") {
		t.Errorf("content should start with the top answer, got %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "**Related Information**") {
		t.Error("content should contain the related block")
	}
	// Related block holds at most two further questions.
	if !strings.Contains(resp.Content, "change my email") || !strings.Contains(resp.Content, "close my account") {
		t.Error("related block should list the second and third matches")
	}
	if strings.Contains(resp.Content, "export data") {
		t.Error("related block should stop after two entries")
	}

	if resp.Metadata.ModelUsed != "knowledge-base" {
		t.Errorf("ModelUsed = %q, want knowledge-base", resp.Metadata.ModelUsed)
	}
	if resp.Metadata.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want the classification confidence", resp.Metadata.Confidence)
	}
	if len(resp.Suggestions) > 3 {
		t.Errorf("suggestions = %d, want at most 3", len(resp.Suggestions))
	}
	if len(resp.NextSteps) == 0 || len(resp.RelatedLinks) == 0 {
		t.Error("FAQ responses should carry next steps and related links")
	}
}

func TestComposeFAQ_NoMatches(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(faqRequest())

	if !strings.Contains(resp.Content, "don't have an answer") {
		t.Errorf("content should apologize, got %q", resp.Content)
	}
	if resp.Metadata.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3", resp.Metadata.Confidence)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("no-match response should still carry suggestions")
	}
}

func TestComposeOnboarding_InProgress(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentOnboarding},
		Onboarding:     &composer.OnboardingInput{CurrentStep: 2, TotalSteps: 5},
	})

	if !strings.Contains(resp.Content, "step 2 of 5") {
		t.Errorf("content missing step counter: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "██░░░ 40%") {
		t.Errorf("content missing progress bar: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "**Next steps**") {
		t.Error("in-progress onboarding should list next steps")
	}
	if !strings.Contains(resp.Content, "Complete step 3") {
		t.Error("next steps should name the upcoming step")
	}

	if resp.Progress == nil {
		t.Fatal("Progress should be set")
	}
	if resp.Progress.CompletionPercentage != 40 {
		t.Errorf("CompletionPercentage = %d, want 40", resp.Progress.CompletionPercentage)
	}
}

func TestComposeOnboarding_Complete(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentOnboarding},
		Onboarding:     &composer.OnboardingInput{CurrentStep: 3, TotalSteps: 3},
	})

	if !strings.Contains(resp.Content, "Setup complete!") {
		t.Errorf("content should congratulate: %q", resp.Content)
	}
	if strings.Contains(resp.Content, "**Next steps**") {
		t.Error("complete onboarding should not list next steps")
	}
	if resp.Progress.CompletionPercentage != 100 {
		t.Errorf("CompletionPercentage = %d, want 100", resp.Progress.CompletionPercentage)
	}
}

func TestComposeOnboarding_ClampsCounters(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentOnboarding},
		Onboarding:     &composer.OnboardingInput{CurrentStep: 9, TotalSteps: 4},
	})

	if resp.Progress.CurrentStep != 4 || resp.Progress.CompletionPercentage != 100 {
		t.Errorf("Progress = %+v, want current clamped to total", resp.Progress)
	}
}

func TestComposeTroubleshooting_Tiers(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentTroubleshooting},
		Solutions:      []string{"Restart the widget", "Clear the cache", "Reinstall", "Contact support"},
	})

	for _, want := range []string{
		"**Most Likely Fix:** Restart the widget",
		"**Alternative:** Clear the cache",
		"**Additional Option:** Reinstall",
		"- Contact support",
	} {
		if !strings.Contains(resp.Content, want) {
			t.Errorf("content missing %q:\n%s", want, resp.Content)
		}
	}

	if strings.Contains(resp.Content, "human support agent") {
		t.Error("no escalation notice expected without escalation state")
	}
}

func TestComposeTroubleshooting_Escalation(t *testing.T) {
	t.Parallel()

	c := newComposer()
	base := composer.Request{
		Classification: chat.Classification{Intent: chat.IntentTroubleshooting},
		Solutions:      []string{"Restart the widget"},
		Context: &session.Context{
			Troubleshooting: &session.TroubleshootingState{EscalationLevel: 1},
		},
	}

	// Level 1 is at the threshold, not past it.
	if resp := c.Compose(base); strings.Contains(resp.Content, "human support agent") {
		t.Error("level 1 should not escalate")
	}

	base.Context.Troubleshooting.EscalationLevel = 2
	resp := c.Compose(base)
	if !strings.Contains(resp.Content, "human support agent") {
		t.Error("level 2 should append the escalation notice")
	}
	found := false
	for _, step := range resp.NextSteps {
		if strings.Contains(step, "support") {
			found = true
		}
	}
	if !found {
		t.Error("escalated next steps should mention support")
	}
}

func TestComposeProduct_Sections(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentProduct},
		Product: &composer.ProductInfo{
			Name:         "Concierge",
			Summary:      "An embeddable support-chat assistant.",
			Availability: "beta",
			Plans: []composer.Plan{
				{Name: "Free", Price: "$0/mo", Features: []string{"1 site"}},
				{Name: "Team", Price: "$29/mo"},
			},
			Specifications: &composer.Specifications{
				Requirements: []string{"A modern browser"},
			},
		},
	})

	for _, want := range []string{
		"An embeddable support-chat assistant.",
		"**Pricing**",
		"**Free** — $0/mo",
		"1 site",
		"**Availability:** Available in beta",
		"**Requirements**",
		"A modern browser",
	} {
		if !strings.Contains(resp.Content, want) {
			t.Errorf("content missing %q:\n%s", want, resp.Content)
		}
	}
}

func TestComposeProduct_OmitsAbsentSections(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentProduct},
		Product:        &composer.ProductInfo{Name: "Concierge"},
	})

	for _, absent := range []string{"**Pricing**", "**Availability:**", "**Requirements**"} {
		if strings.Contains(resp.Content, absent) {
			t.Errorf("content should omit %q when the field is absent", absent)
		}
	}
}

func TestComposeProduct_UnknownAvailabilityPassesThrough(t *testing.T) {
	t.Parallel()

	c := newComposer()
	resp := c.Compose(composer.Request{
		Classification: chat.Classification{Intent: chat.IntentProduct},
		Product:        &composer.ProductInfo{Name: "Concierge", Availability: "invite_only"},
	})

	if !strings.Contains(resp.Content, "**Availability:** invite_only") {
		t.Errorf("unknown status should pass through verbatim: %q", resp.Content)
	}
}

// Missing branch payloads fall through to the general pipeline.
func TestCompose_PayloadFallthrough(t *testing.T) {
	t.Parallel()

	c := newComposer()
	for _, intent := range []chat.Intent{chat.IntentOnboarding, chat.IntentTroubleshooting, chat.IntentProduct} {
		resp := c.Compose(composer.Request{
			Draft:          chat.Draft{Content: "A plain draft reply.", Model: "test-model"},
			Classification: chat.Classification{Intent: intent},
		})
		if !strings.HasPrefix(resp.Content, "A plain draft reply.") {
			t.Errorf("%s without payload should use the general pipeline, got %q", intent, resp.Content)
		}
	}
}
