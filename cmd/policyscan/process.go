package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitaker/policyscan/internal/batch"
)

var processCmd = &cobra.Command{
	Use:   "process <blob-name>",
	Short: "Process a single PDF blob from the input container",
	Args:  cobra.ExactArgs(1),
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

		doc, err := orch.ProcessBlob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		batch.PrintExtraction(os.Stdout, doc)
		return nil
	},
}

func init() {
	processCmd.Flags().BoolVar(&runDirect, "direct", false,
		"transfer PDF bytes to the analysis service instead of a signed URL")

	rootCmd.AddCommand(processCmd)
}
