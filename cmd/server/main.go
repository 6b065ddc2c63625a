// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sozercan/racing-agent/internal/analyzer"
	"github.com/sozercan/racing-agent/internal/config"
	"github.com/sozercan/racing-agent/internal/credential"
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/sozercan/racing-agent/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	slog.SetDefault(config.NewLogger(cfg.Log, os.Stderr))

	factory, err := llm.NewFactory(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	chain := credential.Chain{
		credential.Env(cfg.Credential.Vars...),
		credential.SecretsFile(cfg.Credential.SecretsFile, cfg.Credential.SecretsKeys...),
	}
	var session server.Session
	session.Credential, session.Source, err = chain.Resolve(context.Background())
	switch {
	case errors.Is(err, credential.ErrNotFound):
		slog.Info("No API key configured, the form will ask for one")
	case err != nil:
		log.Fatalf("failed to resolve API key: %v", err)
	}

	a := analyzer.New(factory, analyzer.Options{
		JSONMode:       cfg.LLM.JSONMode,
		ResponseSchema: cfg.LLM.ResponseSchema,
		Timeout:        cfg.LLM.Timeout,
	})

	srv, err := server.New(*cfg, a, session)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
