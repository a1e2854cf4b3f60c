package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwhitaker/policyscan/internal/assemble"
)

const maxFailuresShown = 5

// Report writes an operator-facing batch summary.
func Report(w io.Writer, s *Summary) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "BATCH PROCESSING COMPLETE")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Processed: %d files (%d succeeded, %d failed)\n",
		s.TotalFiles, s.Successful, s.Failed)

	if s.Successful > 0 {
		fmt.Fprintf(w, "Total pages extracted: %d\n", s.TotalPages)
		fmt.Fprintf(w, "Total healthcare rules found: %d\n", s.TotalRules)
	}

	failures := 0
	for _, r := range s.Results {
		if r.Status != StatusFailed {
			continue
		}
		if failures == 0 {
			fmt.Fprintln(w, "\nFailed files:")
		}
		failures++
		if failures <= maxFailuresShown {
			fmt.Fprintf(w, "  - %s: %s\n", r.BlobName, r.Error)
		}
	}
	if failures > maxFailuresShown {
		fmt.Fprintf(w, "  ... and %d more\n", failures-maxFailuresShown)
	}
}

// PrintExtraction writes a summary of one extraction document.
func PrintExtraction(w io.Writer, doc *assemble.ExtractionDocument) {
	rule := strings.Repeat("-", 70)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "EXTRACTION SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Source:     %s\n", doc.SourceBlob)
	fmt.Fprintf(w, "Pages:      %d\n", doc.PageCount)
	fmt.Fprintf(w, "Paragraphs: %d\n", len(doc.Paragraphs))
	fmt.Fprintf(w, "Tables:     %d\n", len(doc.Tables))
	fmt.Fprintf(w, "Rules:      %d\n", doc.RulesCount)

	if doc.Metadata.PayerName != nil {
		fmt.Fprintf(w, "Payer:      %s\n", *doc.Metadata.PayerName)
	}
	fmt.Fprintf(w, "Type:       %s\n", doc.Metadata.DocumentType)

	counts := doc.Metadata.CategoryCounts()
	if len(counts) > 0 {
		fmt.Fprintln(w, "\nRule categories found:")
		for _, cc := range counts {
			fmt.Fprintf(w, "  - %s: %d\n", strings.ReplaceAll(cc.Category, "_", " "), cc.Count)
		}
	}
}
