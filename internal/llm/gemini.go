package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sozercan/racing-agent/internal/config"
	"google.golang.org/genai"
)

const (
	SearchToolGoogleSearch    = "google_search"
	SearchToolSearchRetrieval = "google_search_retrieval"
)

var ErrEmptyResponse = errors.New("model returned no content")

// Gemini client implementation
type Gemini struct {
	client *genai.Client
	cfg    *config.LLMConfig
}

func NewGemini(ctx context.Context, cfg *config.LLMConfig, apiKey string) (*Gemini, error) {
	switch cfg.SearchTool {
	case SearchToolGoogleSearch, SearchToolSearchRetrieval:
	default:
		return nil, fmt.Errorf("unknown gemini search tool %q", cfg.SearchTool)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.APIEndpoint != "" {
		cc.HTTPOptions.BaseURL = cfg.APIEndpoint
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		cfg:    cfg,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, system, prompt string, opts ...Option) (*Response, error) {
	options := applyOptions(Options{
		Model:     g.cfg.Model,
		MaxTokens: g.cfg.MaxTokens,
	}, opts)

	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if options.JSON {
		gc.ResponseMIMEType = "application/json"
	}
	if options.Schema != nil {
		gc.ResponseJsonSchema = options.Schema
	}
	if options.Search {
		gc.Tools = []*genai.Tool{g.searchTool()}
	}
	if options.Temperature != nil {
		gc.Temperature = genai.Ptr(float32(*options.Temperature))
	}
	if options.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(options.MaxTokens)
	}

	slog.Debug("Calling gemini", "model", options.Model, "search", options.Search, "json", options.JSON)
	resp, err := g.client.Models.GenerateContent(ctx, options.Model, genai.Text(prompt), gc)
	if err != nil {
		return nil, err
	}

	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked: %s %s", pf.BlockReason, pf.BlockReasonMessage)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	response := &Response{
		Content: text,
		Model:   options.Model,
	}
	if resp.ModelVersion != "" {
		response.Model = resp.ModelVersion
	}
	if um := resp.UsageMetadata; um != nil {
		response.Usage = Usage{
			PromptTokens:     int64(um.PromptTokenCount),
			CompletionTokens: int64(um.CandidatesTokenCount),
			TotalTokens:      int64(um.TotalTokenCount),
		}
	}
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		response.SearchQueries = gm.WebSearchQueries
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			response.Sources = append(response.Sources, Source{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}

	return response, nil
}

func (g *Gemini) searchTool() *genai.Tool {
	if g.cfg.SearchTool == SearchToolSearchRetrieval {
		return &genai.Tool{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}
	}
	return &genai.Tool{GoogleSearch: &genai.GoogleSearch{}}
}
