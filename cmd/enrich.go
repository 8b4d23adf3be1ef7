package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/narrisia/inbox-intel/internal/config"
	"github.com/narrisia/inbox-intel/internal/enrich"
	"github.com/narrisia/inbox-intel/internal/identity"
	"github.com/narrisia/inbox-intel/internal/mailbox"
	"github.com/narrisia/inbox-intel/internal/model"
	"github.com/narrisia/inbox-intel/pkg/anthropic"
)

var (
	enrichInput         string
	enrichFromGmail     bool
	enrichDomainContext string
	enrichConcurrency   int
	enrichOutput        string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a batch of emails from a JSON file or Gmail",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		msgs, err := loadBatch(ctx)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			zap.L().Info("no messages to enrich")
			return nil
		}

		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		results, err := orch.Enrich(ctx, msgs, enrichDomainContext)
		if err != nil {
			return eris.Wrap(err, "enrich batch")
		}

		return writeResults(results)
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "path to a JSON file of raw messages")
	enrichCmd.Flags().BoolVar(&enrichFromGmail, "gmail", false, "fetch messages from the configured Gmail inbox")
	enrichCmd.Flags().StringVar(&enrichDomainContext, "domain-context", "", "business context used for relevancy scoring")
	enrichCmd.Flags().IntVar(&enrichConcurrency, "concurrency", 0, "max concurrent enrichments (default from config)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "write results to this file instead of stdout")
	rootCmd.AddCommand(enrichCmd)
}

// loadBatch reads messages from the input file or the Gmail inbox.
func loadBatch(ctx context.Context) ([]model.RawMessage, error) {
	switch {
	case enrichFromGmail:
		src, err := mailbox.NewGmailSource(ctx, cfg.Gmail.AccessToken, cfg.Gmail.Query)
		if err != nil {
			return nil, err
		}
		return src.Fetch(ctx, cfg.Gmail.MaxMessages)
	case enrichInput != "":
		return loadMessagesFile(enrichInput)
	default:
		return nil, eris.New("enrich: either --input or --gmail is required")
	}
}

// loadMessagesFile parses a JSON array of raw messages.
func loadMessagesFile(path string) ([]model.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read input file")
	}
	var msgs []model.RawMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, eris.Wrap(err, "enrich: parse input file")
	}
	return msgs, nil
}

// buildOrchestrator wires the enrichment pipeline from configuration,
// loading custom tier and identity tables when configured.
func buildOrchestrator(c *config.Config) (*enrich.Orchestrator, error) {
	ecfg := enrich.Config{
		Model:            c.Anthropic.Model,
		MaxTokens:        c.Anthropic.MaxTokens,
		MaxConcurrency:   c.Enrich.MaxConcurrency,
		CallTimeout:      time.Duration(c.Enrich.CallTimeoutSecs) * time.Second,
		CredibilityFloor: c.Enrich.CredibilityFloor,
		InferenceRPS:     c.Enrich.InferenceRPS,
	}
	// The config default is 30, so a configured 0 is an explicit
	// request to turn the floor off.
	if c.Enrich.CredibilityFloor == 0 {
		ecfg.CredibilityFloor = -1
	}
	if enrichConcurrency > 0 {
		ecfg.MaxConcurrency = enrichConcurrency
	}

	orch := enrich.NewOrchestrator(anthropic.NewClient(c.Anthropic.Key), ecfg)

	if c.Enrich.TiersPath != "" {
		data, err := os.ReadFile(c.Enrich.TiersPath)
		if err != nil {
			return nil, eris.Wrap(err, "enrich: read tiers file")
		}
		tiers, err := enrich.LoadTiers(data)
		if err != nil {
			return nil, err
		}
		orch = orch.WithTiers(tiers)
	}

	if c.Enrich.TablesPath != "" {
		data, err := os.ReadFile(c.Enrich.TablesPath)
		if err != nil {
			return nil, eris.Wrap(err, "enrich: read identity tables file")
		}
		tables, err := identity.LoadTables(data)
		if err != nil {
			return nil, err
		}
		orch = orch.WithResolver(identity.NewResolver(tables))
	}

	return orch, nil
}

// writeResults emits results as indented JSON to stdout or --output.
func writeResults(results []model.EnrichmentResult) error {
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return eris.Wrap(err, "enrich: marshal results")
	}
	out = append(out, '\n')

	if enrichOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(enrichOutput, out, 0644); err != nil {
		return eris.Wrap(err, "enrich: write output file")
	}
	zap.L().Info("results written",
		zap.String("path", enrichOutput),
		zap.Int("count", len(results)),
	)
	return nil
}
