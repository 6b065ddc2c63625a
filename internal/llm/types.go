package llm

import (
	"context"
)

type Provider interface {
	// Generate sends one system instruction and one user prompt and returns
	// the model's text answer
	Generate(ctx context.Context, system, prompt string, opts ...Option) (*Response, error)
}

// Factory builds a Provider bound to one API key.
type Factory func(ctx context.Context, apiKey string) (Provider, error)

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature *float64
	// Search enables the provider's web search grounding tool
	Search bool
	// JSON asks the provider to constrain output to a JSON object
	JSON bool
	// Schema is a JSON schema for the answer, sent only to providers that
	// accept one
	Schema map[string]interface{}
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithSearch() Option { return func(o *Options) { o.Search = true } }

func WithJSON() Option { return func(o *Options) { o.JSON = true } }

func WithSchema(schema map[string]interface{}) Option {
	return func(o *Options) { o.Schema = schema }
}

func WithMaxTokens(n int64) Option { return func(o *Options) { o.MaxTokens = n } }

func WithTemperature(t float64) Option { return func(o *Options) { o.Temperature = &t } }

// Source is a web page the search tool grounded the answer on.
type Source struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

type Response struct {
	Content       string
	Model         string
	Usage         Usage
	Sources       []Source
	SearchQueries []string
}

func applyOptions(defaults Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}
