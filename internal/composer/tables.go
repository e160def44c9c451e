package composer

import (
	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/pkg/chat"
)

// Canned text lives in static tables keyed by the closed enums, so each
// dispatch stays exhaustive and testable per branch.

// categoryNextSteps maps an entry category to its canned next-step list.
var categoryNextSteps = map[knowledge.Category][]string{
	knowledge.CategoryFAQ: {
		"Browse the documentation for more detail",
		"Ask a follow-up question",
	},
	knowledge.CategoryTroubleshooting: {
		"Try the suggested fix",
		"Tell me whether the problem persists",
	},
	knowledge.CategoryProduct: {
		"Compare the available plans",
		"Start a free trial",
	},
	knowledge.CategoryOnboarding: {
		"Continue with the setup guide",
		"Verify the previous step completed",
	},
}

// categoryRelatedLinks maps an entry category to its canned link list.
var categoryRelatedLinks = map[knowledge.Category][]chat.Link{
	knowledge.CategoryFAQ: {
		{Title: "Documentation", URL: "https://docs.concierge.chat"},
		{Title: "Frequently Asked Questions", URL: "https://docs.concierge.chat/faq"},
	},
	knowledge.CategoryTroubleshooting: {
		{Title: "Troubleshooting Guide", URL: "https://docs.concierge.chat/troubleshooting"},
		{Title: "System Status", URL: "https://status.concierge.chat"},
	},
	knowledge.CategoryProduct: {
		{Title: "Pricing", URL: "https://concierge.chat/pricing"},
		{Title: "Feature Overview", URL: "https://concierge.chat/features"},
	},
	knowledge.CategoryOnboarding: {
		{Title: "Getting Started", URL: "https://docs.concierge.chat/getting-started"},
	},
}

// intentSuggestions maps an intent to its canned follow-up suggestions.
var intentSuggestions = map[chat.Intent][]string{
	chat.IntentFAQ: {
		"Tell me more about that",
		"How do I get started?",
		"What else can you help with?",
	},
	chat.IntentTroubleshooting: {
		"That fixed it",
		"It still doesn't work",
		"I'd like to talk to a person",
	},
	chat.IntentOnboarding: {
		"Continue to the next step",
		"Repeat the previous step",
		"Skip the rest of the setup",
	},
	chat.IntentProduct: {
		"What does the free tier include?",
		"How does billing work?",
		"Can I self-host?",
	},
	chat.IntentGeneral: {
		"Tell me more",
		"Can you give an example?",
		"What else can you do?",
	},
}

// noKnowledgeSuggestions is used when a knowledge-answerable question found
// no matches at all.
var noKnowledgeSuggestions = []string{
	"Try rephrasing your question",
	"Browse the documentation",
	"Ask about something else",
}

// followUpPrefixes is keyed by the previous turn's intent and prepended to
// general-pipeline drafts on follow-up turns.
var followUpPrefixes = map[chat.Intent]string{
	chat.IntentFAQ:             "Following up on your question: ",
	chat.IntentTroubleshooting: "Continuing with the troubleshooting: ",
	chat.IntentOnboarding:      "Back to the setup: ",
	chat.IntentProduct:         "More on the product side: ",
	chat.IntentGeneral:         "To continue: ",
}

// intentNotices are appended to general-pipeline drafts as contextual hints
// for the current intent.
var intentNotices = map[chat.Intent]string{
	chat.IntentTroubleshooting: "If this doesn't resolve the issue, let me know and I can escalate to a human.",
	chat.IntentOnboarding:      "You can ask me to continue the setup whenever you're ready.",
	chat.IntentProduct:         "Full product details are in the documentation at docs.concierge.chat.",
}

// backgroundInfo feeds the detailed response-length preference.
var backgroundInfo = map[chat.Intent]string{
	chat.IntentFAQ:             "Answers come from a curated knowledge base that the site owner maintains; anything not covered there is handled by the language model.",
	chat.IntentTroubleshooting: "Troubleshooting suggestions are ordered from the most likely and simplest fix to the more involved ones.",
	chat.IntentOnboarding:      "The setup guide walks through embedding the widget, loading knowledge entries, and verifying the connection.",
	chat.IntentProduct:         "Plans differ mainly in the number of sites, transcript retention, and support level.",
	chat.IntentGeneral:         "I combine a curated knowledge base with a language model, preferring the knowledge base when it has a direct answer.",
}

// conceptTrigger adds a related-concept line when its keyword appears in the
// composed content. Checked in order; at most three fire.
type conceptTrigger struct {
	keyword string
	line    string
}

var conceptTriggers = []conceptTrigger{
	{"api", "Related: the HTTP API reference covers every endpoint the widget uses."},
	{"config", "Related: configuration lives in a single YAML file with environment-variable expansion."},
	{"install", "Related: installation is a single script tag; no build step required."},
	{"performance", "Related: knowledge-base answers are served locally and avoid the model round-trip."},
	{"security", "Related: admin endpoints require a bearer token and all comparisons are constant-time."},
}

// welcome-back greetings, tiered by prior message count.
const (
	welcomeBackLong  = "Welcome back! We've covered a lot together — here's the latest:\n\n"
	welcomeBackShort = "Good to see you again. "
)

// troubleshooting tier labels for the first three candidate solutions.
var solutionTiers = [...]string{"Most Likely Fix", "Alternative", "Additional Option"}

const escalationNotice = "This issue has come up a few times now. If you'd like, I can connect you with a human support agent who can dig deeper."

// availabilityLabels maps the fixed product status vocabulary to display text.
var availabilityLabels = map[string]string{
	"available":   "Available now",
	"coming_soon": "Coming soon",
	"beta":        "Available in beta",
	"deprecated":  "Deprecated — no longer recommended",
}

// errorTemplate is one entry of the upstream failure taxonomy.
type errorTemplate struct {
	message     string
	suggestions []string
	nextSteps   []string
	// interpolate appends the caller-supplied detail string when true.
	interpolate bool
}

var errorTemplates = map[chat.ErrorKind]errorTemplate{
	chat.ErrorTimeout: {
		message: "That took longer than expected and the request timed out. Your message wasn't lost — please try again.",
		suggestions: []string{
			"Try again",
			"Ask a shorter question",
		},
		nextSteps: []string{
			"Retry the request",
			"Check the system status page if this keeps happening",
		},
	},
	chat.ErrorServiceUnavailable: {
		message: "The assistant's language model is temporarily unavailable. Knowledge-base answers still work.",
		suggestions: []string{
			"Ask a question from the FAQ",
			"Try again in a few minutes",
		},
		nextSteps: []string{
			"Wait a moment and retry",
			"Check the system status page",
		},
	},
	chat.ErrorRateLimit: {
		message: "You're sending messages a little faster than I can handle. Give it a few seconds and try again.",
		suggestions: []string{
			"Wait a moment and retry",
		},
		nextSteps: []string{
			"Pause briefly before the next message",
		},
	},
	chat.ErrorInvalidInput: {
		message: "I couldn't make sense of that input",
		suggestions: []string{
			"Rephrase your message",
			"Ask one question at a time",
		},
		nextSteps: []string{
			"Send the message again in plain text",
		},
		interpolate: true,
	},
	chat.ErrorUnknown: {
		message: "Something went wrong on my end",
		suggestions: []string{
			"Try again",
			"Rephrase your question",
		},
		nextSteps: []string{
			"Retry the request",
			"Contact support if the problem persists",
		},
		interpolate: true,
	},
}

// fallback texts.
const (
	fallbackDisclaimer = "\n\n(I'm not fully confident in this answer — please double-check anything important.)"
	fallbackCanned     = "I couldn't process that request. Could you try rephrasing it? You can also ask me about setup, pricing, or troubleshooting."
	noKnowledgeBody    = "I'm sorry — I don't have an answer for that in my knowledge base yet. Could you rephrase the question, or ask about something else?"
)
