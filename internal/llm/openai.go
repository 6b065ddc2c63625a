package llm

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/sozercan/racing-agent/internal/config"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1"

// OpenAI client implementation
type OpenAI struct {
	client openai.Client
	cfg    *config.LLMConfig
}

func NewOpenAI(cfg *config.LLMConfig, apiKey string) (*OpenAI, error) {
	var client openai.Client

	switch cfg.Provider {
	case "azure":
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(apiKey),
		)
	default: // "openai"
		endpoint := cfg.APIEndpoint
		if endpoint == "" {
			endpoint = defaultOpenAIEndpoint
		}
		client = openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(endpoint),
		)
	}

	return &OpenAI{
		client: client,
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, system, prompt string, opts ...Option) (*Response, error) {
	// Apply options
	options := applyOptions(Options{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
	}, opts)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}
	if options.Search {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		}
	}
	if options.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(options.MaxTokens)
	}

	slog.Debug("Calling openai", "model", options.Model, "search", options.Search, "json", options.JSON)
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	// Process the response
	msg := resp.Choices[0].Message
	response := &Response{
		Content: msg.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, a := range msg.Annotations {
		if a.URLCitation.URL == "" {
			continue
		}
		response.Sources = append(response.Sources, Source{Title: a.URLCitation.Title, URL: a.URLCitation.URL})
	}

	return response, nil
}
