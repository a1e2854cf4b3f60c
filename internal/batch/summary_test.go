package batch

import (
	"testing"
	"time"
)

func TestOutputBlobName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple pdf", "policy.pdf", "policy_ocr.json"},
		{"uppercase extension", "POLICY.PDF", "POLICY_ocr.json"},
		{"nested path", "2025/q2/aetna.pdf", "2025/q2/aetna_ocr.json"},
		{"dots in stem", "policy.v2.final.pdf", "policy.v2.final_ocr.json"},
		{"no extension", "policy", "policy_ocr.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputBlobName(tt.in); got != tt.want {
				t.Errorf("OutputBlobName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummaryBlobName(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 45, 0, time.UTC)
	if got := SummaryBlobName(now); got != "_batch_summary_20250615_103045.json" {
		t.Errorf("SummaryBlobName() = %q", got)
	}

	est := time.Date(2025, 6, 15, 5, 30, 45, 0, time.FixedZone("EST", -5*3600))
	if got := SummaryBlobName(est); got != "_batch_summary_20250615_103045.json" {
		t.Errorf("expected UTC normalization, got %q", got)
	}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	t.Run("totals are reductions over results", func(t *testing.T) {
		results := []Result{
			{BlobName: "a.pdf", Status: StatusSuccess, Pages: 3, Rules: 2},
			{BlobName: "b.pdf", Status: StatusFailed, Error: "analysis reported failure"},
			{BlobName: "c.pdf", Status: StatusSuccess, Pages: 7, Rules: 0},
		}
		s := BuildSummary(results, now)

		if s.TotalFiles != 3 || s.Successful != 2 || s.Failed != 1 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if s.TotalPages != 10 {
			t.Errorf("expected 10 pages, got %d", s.TotalPages)
		}
		if s.TotalRules != 2 {
			t.Errorf("expected 2 rules, got %d", s.TotalRules)
		}
		if s.ProcessingDate != "2025-06-15T10:30:00Z" {
			t.Errorf("unexpected processing date: %s", s.ProcessingDate)
		}
	})

	t.Run("failed results contribute nothing to totals", func(t *testing.T) {
		// Pages on a failed result can only come from a bug upstream;
		// the reduction must still ignore them.
		s := BuildSummary([]Result{{BlobName: "x.pdf", Status: StatusFailed, Pages: 5, Rules: 3}}, now)
		if s.TotalPages != 0 || s.TotalRules != 0 {
			t.Errorf("failed result leaked into totals: %+v", s)
		}
	})

	t.Run("empty batch serializes with an empty results array", func(t *testing.T) {
		s := BuildSummary(nil, now)
		if s.TotalFiles != 0 || s.Successful != 0 || s.Failed != 0 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if s.Results == nil {
			t.Error("results must be an empty slice, not nil")
		}
	})
}
