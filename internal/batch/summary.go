package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Result is the outcome of processing one PDF.
type Result struct {
	BlobName  string `json:"blob_name"`
	Status    string `json:"status"`
	Pages     int    `json:"pages,omitempty"`
	Rules     int    `json:"rules_extracted,omitempty"`
	JSONBlob  string `json:"json_blob,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Summary aggregates a batch run. All totals are reductions over Results;
// BuildSummary is the only constructor.
type Summary struct {
	ProcessingDate string   `json:"processing_date"`
	TotalFiles     int      `json:"total_files"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	TotalPages     int      `json:"total_pages"`
	TotalRules     int      `json:"total_rules"`
	Results        []Result `json:"results"`
}

// BuildSummary computes batch totals from per-document results. Failed
// documents contribute nothing to page and rule totals.
func BuildSummary(results []Result, now time.Time) *Summary {
	s := &Summary{
		ProcessingDate: now.UTC().Format(time.RFC3339),
		TotalFiles:     len(results),
		Results:        results,
	}
	if s.Results == nil {
		s.Results = []Result{}
	}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Successful++
			s.TotalPages += r.Pages
			s.TotalRules += r.Rules
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// OutputBlobName derives the JSON artifact name for an input blob:
// the input name with its extension stripped, suffixed with _ocr.json.
func OutputBlobName(blobName string) string {
	stem := strings.TrimSuffix(blobName, filepath.Ext(blobName))
	return stem + "_ocr.json"
}

// SummaryBlobName names the batch summary artifact for a run.
func SummaryBlobName(now time.Time) string {
	return fmt.Sprintf("_batch_summary_%s.json", now.UTC().Format("20060102_150405"))
}
