package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sozercan/racing-agent/apimodels"
	"github.com/sozercan/racing-agent/internal/analyzer"
	"github.com/sozercan/racing-agent/internal/config"
	"github.com/sozercan/racing-agent/internal/credential"
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/sozercan/racing-agent/internal/race"
	"github.com/sozercan/racing-agent/internal/render"
)

// errAnalysisFailed is returned after the failure has already been printed.
var errAnalysisFailed = errors.New("analysis failed")

type analyzeFlags struct {
	meeting string
	date    string
	time    string
	mode    string
	model   string
	apiKey  string
	json    bool
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "racecard",
		Short:         "Race analysis from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(newAnalyzeCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one race: selection, danger, and reasoning",
		Example: `  racecard analyze --meeting Newbury --date 2024-06-01 --time 15:35 --mode win
  racecard analyze --meeting Ascot --mode each-way --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.meeting, "meeting", "", "racecourse name, e.g. Newbury")
	cmd.Flags().StringVar(&f.date, "date", time.Now().Format(race.DateLayout), "race date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.time, "time", "15:35", "race time (HH:MM)")
	cmd.Flags().StringVar(&f.mode, "mode", "Win", "bet mode: win or each-way")
	cmd.Flags().StringVar(&f.model, "model", "", "override the configured LLM model")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Google API key; defaults to the environment, the secrets file, then a prompt")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the JSON API response instead of text")
	return cmd
}

func runAnalyze(cmd *cobra.Command, f analyzeFlags) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.SetDefault(config.NewLogger(cfg.Log, cmd.ErrOrStderr()))

	factory, err := llm.NewFactory(&cfg.LLM)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	chain := credential.Chain{
		credential.Static("flag", f.apiKey),
		credential.Env(cfg.Credential.Vars...),
		credential.SecretsFile(cfg.Credential.SecretsFile, cfg.Credential.SecretsKeys...),
		credential.Prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Google API Key"),
	}

	cred, _, err := chain.Resolve(ctx)
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		return fmt.Errorf("failed to resolve API key: %w", err)
	}

	q, qerr := race.NewQuery(f.meeting, f.date, f.time, f.mode)
	var report *analyzer.Report
	if err = analyzer.CheckInput(cred, qerr); err == nil {
		a := analyzer.New(factory, analyzer.Options{
			JSONMode:       cfg.LLM.JSONMode,
			ResponseSchema: cfg.LLM.ResponseSchema,
			Timeout:        cfg.LLM.Timeout,
		})
		report, err = a.Analyze(ctx, q, cred, llm.WithModel(f.model))
	}

	if f.json {
		if werr := writeJSON(cmd.OutOrStdout(), report, err); werr != nil {
			return werr
		}
	} else if werr := render.WriteText(cmd.OutOrStdout(), render.NewPage(q, report, err)); werr != nil {
		return werr
	}

	if err != nil {
		return errAnalysisFailed
	}
	return nil
}

func writeJSON(w io.Writer, report *analyzer.Report, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err != nil {
		return enc.Encode(apimodels.NewErrorResponse(err))
	}
	return enc.Encode(apimodels.NewAnalysisResponse(report))
}
