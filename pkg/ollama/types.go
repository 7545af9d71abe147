package ollama

// GenerateRequest is the body of a completion call.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// GenerateResponse is the non-streaming completion response.
type GenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	DoneCause string `json:"done_reason,omitempty"`
}

// Model describes one locally installed model.
type Model struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// tagsResponse wraps the model listing endpoint.
type tagsResponse struct {
	Models []Model `json:"models"`
}
