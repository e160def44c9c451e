package knowledge

// SeedEntries is the fixed set the store is populated with at process start.
// Runtime imports add to it; nothing here survives a restart.
func SeedEntries() []NewEntry {
	return []NewEntry{
		{
			Category: CategoryFAQ,
			Question: "What is Concierge?",
			Answer:   "Concierge is an embeddable chat assistant that answers questions from a curated knowledge base and falls back to a language model for everything else.",
			Keywords: []string{"concierge", "chatbot", "assistant", "overview"},
		},
		{
			Category: CategoryFAQ,
			Question: "Is my conversation data stored?",
			Answer:   "Conversations live in memory for the duration of a session. Transcript persistence is optional and disabled by default.",
			Keywords: []string{"privacy", "data", "storage", "transcript"},
		},
		{
			Category: CategoryFAQ,
			Question: "Which languages does the assistant understand?",
			Answer:   "The assistant works best in English. Other languages are passed through to the language model without knowledge-base support.",
			Keywords: []string{"language", "english", "localization"},
		},
		{
			Category: CategoryOnboarding,
			Question: "How do I add the chat widget to my site?",
			Answer:   "Drop the widget script tag into your page, point it at your Concierge endpoint, and the assistant appears in the corner of the page.",
			Keywords: []string{"widget", "install", "embed", "setup"},
		},
		{
			Category: CategoryOnboarding,
			Question: "How do I load my own knowledge entries?",
			Answer:   "Use the import API or a YAML seed file. Each entry needs a category, a question, an answer, and optional keywords.",
			Keywords: []string{"import", "seed", "knowledge", "config"},
		},
		{
			Category: CategoryTroubleshooting,
			Question: "The widget does not load",
			Answer:   "Check that the endpoint URL is reachable from the browser and that the page allows the widget script. A blocked script or a wrong URL is the most common cause.",
			Keywords: []string{"widget", "loading", "error", "blank"},
		},
		{
			Category: CategoryTroubleshooting,
			Question: "Responses are slow or time out",
			Answer:   "Slow responses usually come from the upstream language model. Knowledge-base answers are served locally and should be instant; check the model endpoint latency first.",
			Keywords: []string{"slow", "timeout", "performance", "latency"},
		},
		{
			Category: CategoryProduct,
			Question: "What plans are available?",
			Answer:   "There is a free tier for a single site and paid plans that add more sites, transcript retention, and priority support.",
			Keywords: []string{"pricing", "plans", "free", "tier"},
		},
		{
			Category: CategoryProduct,
			Question: "Can I run Concierge on my own infrastructure?",
			Answer:   "Yes. Concierge ships as a single binary with an in-memory core, so self-hosting only requires somewhere to run it and an LLM endpoint.",
			Keywords: []string{"self-hosted", "deployment", "infrastructure"},
		},
	}
}
