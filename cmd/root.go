package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/narrisia/inbox-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "inbox-intel",
	Short: "Email batch enrichment pipeline",
	Long:  "Resolves the company behind each inbound email, scores its credibility, classifies sender intent, and rates relevancy to your business.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
