package chat

// Link is a titled URL attached to a response.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Progress describes position within a multi-step flow such as onboarding.
type Progress struct {
	CurrentStep          int `json:"current_step"`
	TotalSteps           int `json:"total_steps"`
	CompletionPercentage int `json:"completion_percentage"`
}

// Metadata is the envelope shared by every composed response.
type Metadata struct {
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	ModelUsed        string   `json:"model_used"`
	Confidence       float64  `json:"confidence"`
	Intent           Intent   `json:"intent"`
	NextSteps        []string `json:"next_steps,omitempty"`
	RelatedLinks     []Link   `json:"related_links,omitempty"`
}

// Response is the final structured reply handed back to the transport layer.
// It is a transient value: produced per turn, never stored by the core.
type Response struct {
	Content      string    `json:"content"`
	Metadata     Metadata  `json:"metadata"`
	Suggestions  []string  `json:"suggestions,omitempty"`
	NextSteps    []string  `json:"next_steps,omitempty"`
	RelatedLinks []Link    `json:"related_links,omitempty"`
	Progress     *Progress `json:"progress,omitempty"`
}
