package llm

import (
	"context"
	"fmt"

	"github.com/sozercan/racing-agent/internal/config"
)

// NewFactory returns a Factory for the configured provider. Provider
// clients are created per key because the key may change per request.
func NewFactory(cfg *config.LLMConfig) (Factory, error) {
	switch cfg.Provider {
	case "gemini", "":
		return func(ctx context.Context, apiKey string) (Provider, error) {
			return NewGemini(ctx, cfg, apiKey)
		}, nil
	case "openai", "azure":
		if cfg.Provider == "azure" && cfg.APIEndpoint == "" {
			return nil, fmt.Errorf("azure provider requires LLM_ENDPOINT")
		}
		return func(_ context.Context, apiKey string) (Provider, error) {
			return NewOpenAI(cfg, apiKey)
		}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
