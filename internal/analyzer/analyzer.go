package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sozercan/racing-agent/internal/credential"
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/sozercan/racing-agent/internal/race"
)

// Report is a successful analysis plus details of the call that produced it.
type Report struct {
	race.Analysis
	Metadata Metadata
}

type Metadata struct {
	ID            string
	Model         string
	Duration      time.Duration
	TokensUsed    int64
	Sources       []llm.Source
	SearchQueries []string
}

type Options struct {
	// Model overrides the provider's configured model when set
	Model string
	// JSONMode constrains the model output to JSON
	JSONMode bool
	// ResponseSchema sends ResultSchema to the provider
	ResponseSchema bool
	// Timeout bounds the model call; zero means no limit
	Timeout time.Duration
}

type Analyzer struct {
	newProvider llm.Factory
	opts        Options
}

func New(newProvider llm.Factory, opts Options) *Analyzer {
	return &Analyzer{
		newProvider: newProvider,
		opts:        opts,
	}
}

// Analyze runs one race analysis. It never calls the model without a
// credential and a meeting. Every failure is an *Error carrying its Kind.
func (a *Analyzer) Analyze(ctx context.Context, q race.Query, cred credential.Credential, opts ...llm.Option) (*Report, error) {
	if err := CheckInput(cred, q.Validate()); err != nil {
		slog.Warn("Analysis refused", "kind", KindOf(err), "error", err)
		return nil, err
	}

	slog.Info("Starting analysis", "meeting", q.Meeting, "date", q.DateString(), "time", q.TimeString(), "mode", q.Mode)
	startTime := time.Now()

	provider, err := a.newProvider(ctx, cred.Value())
	if err != nil {
		slog.Error("Failed to create LLM provider", "error", err)
		return nil, newError(KindRemoteCall, "failed to create LLM provider: %w", err)
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	resp, err := provider.Generate(ctx, BuildSystemInstruction(q), BuildPrompt(q), a.callOptions(opts)...)
	if err != nil {
		slog.Error("LLM analysis failed", "error", err)
		return nil, &Error{Kind: KindRemoteCall, Err: err}
	}
	slog.Debug("LLM provided response", "content", resp.Content, "sources", len(resp.Sources))

	analysis, err := parseAnalysis(resp.Content)
	if err != nil {
		slog.Error("Malformed analysis response", "error", err, "content", truncateString(resp.Content, 500))
		return nil, &Error{Kind: KindMalformedResponse, Err: err}
	}

	report := &Report{
		Analysis: analysis,
		Metadata: Metadata{
			ID:            uuid.NewString(),
			Model:         resp.Model,
			Duration:      time.Since(startTime),
			TokensUsed:    resp.Usage.TotalTokens,
			Sources:       resp.Sources,
			SearchQueries: resp.SearchQueries,
		},
	}
	slog.Info("Analysis complete", "id", report.Metadata.ID, "selection", analysis.Selection, "duration", report.Metadata.Duration)
	return report, nil
}

// CheckInput returns the input error Analyze reports for cred and a query
// whose validation returned queryErr, or nil. A missing credential wins over
// a bad query.
func CheckInput(cred credential.Credential, queryErr error) error {
	if cred.Empty() {
		return &Error{Kind: KindMissingCredential, Err: ErrMissingCredential}
	}
	if queryErr == nil {
		return nil
	}
	if errors.Is(queryErr, race.ErrMissingMeeting) {
		return &Error{Kind: KindMissingMeeting, Err: queryErr}
	}
	return &Error{Kind: KindInvalidQuery, Err: queryErr}
}

func (a *Analyzer) callOptions(extra []llm.Option) []llm.Option {
	opts := []llm.Option{llm.WithSearch(), llm.WithModel(a.opts.Model)}
	if a.opts.JSONMode {
		opts = append(opts, llm.WithJSON())
	}
	if a.opts.ResponseSchema {
		opts = append(opts, llm.WithSchema(ResultSchema()))
	}
	return append(opts, extra...)
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "\n[truncated]"
	}
	return s
}
