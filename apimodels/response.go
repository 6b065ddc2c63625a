package apimodels

import (
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/sozercan/racing-agent/internal/race"
)

type AnalysisResponse struct {
	// The model's verdict on the race
	Analysis race.Analysis `json:"analysis"`

	// Metadata about the analysis
	Metadata AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	// Unique ID of this analysis
	ID string `json:"id"`

	// Time taken for analysis
	Duration string `json:"duration"`

	// Model used for analysis
	Model string `json:"model"`

	// Tokens used in analysis
	TokensUsed int64 `json:"tokensUsed"`

	// Web pages the search tool grounded the answer on
	Sources []llm.Source `json:"sources,omitempty"`

	// Search queries the model issued
	SearchQueries []string `json:"searchQueries,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	// Kind is a stable identifier such as "missing_credential"
	Kind string `json:"kind"`

	Message string `json:"message"`
}
