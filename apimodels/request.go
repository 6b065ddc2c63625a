package apimodels

type AnalysisRequest struct {
	// Meeting is the racecourse name, e.g. "Newbury"
	Meeting string `json:"meeting"`

	// Date of the race as YYYY-MM-DD
	Date string `json:"date"`

	// Time of the race as HH:MM
	Time string `json:"time"`

	// Mode is the bet type: "Win" or "Each-Way"
	Mode string `json:"mode"`

	// APIKey is used when the server has no session key
	APIKey string `json:"apiKey,omitempty"`

	// Optional parameters to control analysis behavior
	Options AnalysisOptions `json:"options,omitempty"`
}

type AnalysisOptions struct {
	// Model overrides the configured LLM model (e.g. "gemini-2.5-pro")
	Model string `json:"model,omitempty"`

	// MaxTokens limits the LLM response length
	MaxTokens int64 `json:"maxTokens,omitempty"`

	// Temperature controls randomness (0.0-1.0)
	Temperature *float64 `json:"temperature,omitempty"`
}
