package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server     ServerConfig
	LLM        LLMConfig
	Credential CredentialConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
}

type LLMConfig struct {
	Provider    string `envconfig:"LLM_PROVIDER" default:"gemini"`
	Model       string `envconfig:"LLM_MODEL" default:"gemini-2.5-flash"`
	APIEndpoint string `envconfig:"LLM_ENDPOINT"`
	APIVersion  string `envconfig:"LLM_API_VERSION" default:"2024-10-21"`
	// SearchTool selects the Gemini grounding tool: google_search or
	// google_search_retrieval (1.5 models only).
	SearchTool     string        `envconfig:"GEMINI_SEARCH_TOOL" default:"google_search"`
	JSONMode       bool          `envconfig:"LLM_JSON_MODE" default:"true"`
	ResponseSchema bool          `envconfig:"LLM_RESPONSE_SCHEMA" default:"false"`
	MaxTokens      int64         `envconfig:"LLM_MAX_TOKENS" default:"0"`
	Timeout        time.Duration `envconfig:"LLM_TIMEOUT" default:"0s"`
}

type CredentialConfig struct {
	Vars        []string `envconfig:"CREDENTIAL_VARS" default:"GOOGLE_API_KEY"`
	SecretsFile string   `envconfig:"SECRETS_FILE" default:".streamlit/secrets.toml"`
	SecretsKeys []string `envconfig:"SECRETS_KEYS" default:"GOOGLE_API_KEY"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return &cfg, nil
}
