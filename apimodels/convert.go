package apimodels

import (
	"github.com/sozercan/racing-agent/internal/analyzer"
)

// NewAnalysisResponse converts a report to its JSON API shape.
func NewAnalysisResponse(report *analyzer.Report) AnalysisResponse {
	return AnalysisResponse{
		Analysis: report.Analysis,
		Metadata: AnalysisMetadata{
			ID:            report.Metadata.ID,
			Duration:      report.Metadata.Duration.String(),
			Model:         report.Metadata.Model,
			TokensUsed:    report.Metadata.TokensUsed,
			Sources:       report.Metadata.Sources,
			SearchQueries: report.Metadata.SearchQueries,
		},
	}
}

func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Kind:    analyzer.KindOf(err).String(),
		Message: err.Error(),
	}}
}
