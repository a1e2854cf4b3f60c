package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitaker/policyscan/internal/azblob"
	"github.com/mwhitaker/policyscan/internal/batch"
	"github.com/mwhitaker/policyscan/internal/config"
	"github.com/mwhitaker/policyscan/internal/docintel"
)

var runDirect bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every PDF in the input container",
	Long: `Run the full batch pipeline: list PDFs in the input container,
analyze each with the layout service, enrich with healthcare heuristics,
and write JSON artifacts plus a batch summary to the output container.

Documents are processed one at a time with a pacing delay between them to
respect the analysis service's rate limits. A document failure is recorded
in the summary and the batch continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		orch, err := buildOrchestrator(cfg, logger)
		if err != nil {
			return err
		}

		summary, err := orch.Run(cmd.Context())
		if err != nil {
			return err
		}
		batch.Report(os.Stdout, summary)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDirect, "direct", false,
		"transfer PDF bytes to the analysis service instead of a signed URL")

	rootCmd.AddCommand(runCmd)
}

// buildOrchestrator wires the storage and analysis clients into a batch
// orchestrator from validated configuration.
func buildOrchestrator(cfg *config.Config, logger *slog.Logger) (*batch.Orchestrator, error) {
	store, err := azblob.NewClient(config.ResolveEnvVars(cfg.Storage.ConnectionString), logger)
	if err != nil {
		return nil, err
	}

	analyzer := docintel.NewClient(docintel.Config{
		Endpoint:     cfg.OCR.Endpoint,
		APIKey:       config.ResolveEnvVars(cfg.OCR.APIKey),
		ModelID:      cfg.OCR.ModelID,
		APIVersion:   cfg.OCR.APIVersion,
		PollInterval: cfg.OCR.PollInterval,
		Timeout:      cfg.OCR.Timeout,
		RateLimit:    cfg.OCR.RateLimit,
		Logger:       logger,
	})

	return batch.New(store, analyzer, batch.Config{
		PDFContainer:   cfg.Storage.PDFContainer,
		JSONContainer:  cfg.Storage.JSONContainer,
		SASTTL:         cfg.Storage.SASTTL,
		PacingDelay:    cfg.Processing.PacingDelay,
		TransferDirect: runDirect,
		Logger:         logger,
	}), nil
}
