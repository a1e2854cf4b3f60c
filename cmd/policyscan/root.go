package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitaker/policyscan/internal/config"
	"github.com/mwhitaker/policyscan/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "policyscan",
	Short: "Batch OCR pipeline for healthcare payer policy PDFs",
	Long: `Policyscan converts scanned healthcare payer policy PDFs into
structured, searchable JSON.

It lists PDFs in a storage container, runs each through a remote
layout-analysis service, enriches the result with healthcare heuristics
(payer detection, document classification, rule-pattern mining), and
writes the JSON artifacts back to storage along with a batch summary.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.policyscan/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig loads and validates configuration. Validation failure is
// fatal: commands must not reach any remote service half-configured.
func loadConfig() (*config.Config, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := cm.Get()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}
