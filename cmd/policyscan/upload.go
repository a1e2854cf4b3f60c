package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"github.com/mwhitaker/policyscan/internal/azblob"
	"github.com/mwhitaker/policyscan/internal/config"
)

var uploadContainer string

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>...",
	Short: "Validate local PDFs and upload them to the input container",
	Long: `Upload local PDF files into the input container so a later run can
process them. Each file is checked with pdfcpu first: unreadable or
non-PDF files are rejected before anything is uploaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		container := uploadContainer
		if container == "" {
			container = cfg.Storage.PDFContainer
		}

		store, err := azblob.NewClient(config.ResolveEnvVars(cfg.Storage.ConnectionString), logger)
		if err != nil {
			return err
		}
		if err := store.EnsureContainer(cmd.Context(), container); err != nil {
			return err
		}

		for _, path := range args {
			pageCount, err := countPages(path)
			if err != nil {
				return fmt.Errorf("rejecting %s: %w", path, err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			name := filepath.Base(path)
			if err := store.Upload(cmd.Context(), container, name, data, "application/pdf"); err != nil {
				return err
			}
			logger.Info("uploaded", "file", name, "pages", pageCount, "container", container)
		}
		return nil
	},
}

// countPages validates that the file is a readable PDF and returns its
// page count.
func countPages(path string) (int, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return 0, fmt.Errorf("not a PDF file")
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return pageCount, nil
}

func init() {
	uploadCmd.Flags().StringVar(&uploadContainer, "container", "",
		"target container (default: the configured input container)")

	rootCmd.AddCommand(uploadCmd)
}
