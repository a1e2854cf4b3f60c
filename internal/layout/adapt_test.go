package layout

import (
	"testing"

	"github.com/mwhitaker/policyscan/internal/docintel"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }

func TestFromAnalyzeResult(t *testing.T) {
	t.Run("nil result degrades to empty document", func(t *testing.T) {
		doc := FromAnalyzeResult("a.pdf", nil)

		if doc.SourceID != "a.pdf" {
			t.Errorf("expected source a.pdf, got %s", doc.SourceID)
		}
		if doc.Pages == nil || doc.Paragraphs == nil || doc.Tables == nil {
			t.Error("expected empty slices, got nil")
		}
		if len(doc.Pages)+len(doc.Paragraphs)+len(doc.Tables) != 0 {
			t.Error("expected no content")
		}
	})

	t.Run("absent sections degrade to empty slices", func(t *testing.T) {
		doc := FromAnalyzeResult("b.pdf", &docintel.AnalyzeResult{Content: "text only"})

		if doc.FullText != "text only" {
			t.Errorf("expected full text preserved, got %q", doc.FullText)
		}
		if len(doc.Pages) != 0 || len(doc.Paragraphs) != 0 || len(doc.Tables) != 0 {
			t.Error("expected empty sections")
		}
	})

	t.Run("page geometry and lines survive intact", func(t *testing.T) {
		result := &docintel.AnalyzeResult{
			Pages: []docintel.Page{
				{
					PageNumber: 1,
					Width:      8.5,
					Height:     11,
					Unit:       "inch",
					Lines: []docintel.Line{
						{Content: "Title line", Confidence: floatPtr(0.98), Polygon: []float64{0, 0, 1, 0, 1, 1, 0, 1}},
						{Content: "No extras"},
					},
				},
			},
		}
		doc := FromAnalyzeResult("c.pdf", result)

		if len(doc.Pages) != 1 {
			t.Fatalf("expected 1 page, got %d", len(doc.Pages))
		}
		page := doc.Pages[0]
		if page.PageNumber != 1 || page.Dimensions.Width != 8.5 || page.Dimensions.Height != 11 || page.Dimensions.Unit != "inch" {
			t.Errorf("page geometry lost: %+v", page)
		}

		if len(page.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(page.Lines))
		}
		withExtras := page.Lines[0]
		if withExtras.Confidence == nil || *withExtras.Confidence != 0.98 {
			t.Errorf("confidence lost: %v", withExtras.Confidence)
		}
		if len(withExtras.BoundingBox) != 8 {
			t.Errorf("bounding box lost: %v", withExtras.BoundingBox)
		}

		bare := page.Lines[1]
		if bare.Confidence != nil {
			t.Errorf("absent confidence should stay nil, got %v", *bare.Confidence)
		}
		if bare.BoundingBox != nil {
			t.Errorf("absent bounding box should stay nil, got %v", bare.BoundingBox)
		}
	})

	t.Run("paragraph role and page reference are optional", func(t *testing.T) {
		result := &docintel.AnalyzeResult{
			Paragraphs: []docintel.Paragraph{
				{Content: "Heading", Role: strPtr("title"), BoundingRegions: []docintel.BoundingRegion{{PageNumber: 3}}},
				{Content: "Plain paragraph"},
			},
		}
		doc := FromAnalyzeResult("d.pdf", result)

		if len(doc.Paragraphs) != 2 {
			t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
		}
		tagged := doc.Paragraphs[0]
		if tagged.Role == nil || *tagged.Role != "title" {
			t.Errorf("role lost: %v", tagged.Role)
		}
		if tagged.PageNumber == nil || *tagged.PageNumber != 3 {
			t.Errorf("page reference lost: %v", tagged.PageNumber)
		}

		plain := doc.Paragraphs[1]
		if plain.Role != nil || plain.PageNumber != nil {
			t.Error("absent role/page reference should stay nil")
		}
	})

	t.Run("table ids follow appearance order starting at 1", func(t *testing.T) {
		result := &docintel.AnalyzeResult{
			Tables: []docintel.Table{
				{RowCount: 1, ColumnCount: 1},
				{RowCount: 2, ColumnCount: 2},
				{RowCount: 3, ColumnCount: 3},
			},
		}
		doc := FromAnalyzeResult("e.pdf", result)

		if len(doc.Tables) != 3 {
			t.Fatalf("expected 3 tables, got %d", len(doc.Tables))
		}
		for i, table := range doc.Tables {
			if table.TableID != i+1 {
				t.Errorf("table %d: expected id %d, got %d", i, i+1, table.TableID)
			}
			if table.RowCount != i+1 {
				t.Errorf("table order not preserved: %+v", table)
			}
		}
	})

	t.Run("cell spans default to 1 when absent", func(t *testing.T) {
		result := &docintel.AnalyzeResult{
			Tables: []docintel.Table{
				{
					RowCount:    2,
					ColumnCount: 2,
					Cells: []docintel.TableCell{
						{RowIndex: 0, ColumnIndex: 0, Content: "merged", Kind: strPtr("columnHeader"), RowSpan: intPtr(2), ColumnSpan: intPtr(2)},
						{RowIndex: 0, ColumnIndex: 1, Content: "plain"},
					},
				},
			},
		}
		doc := FromAnalyzeResult("f.pdf", result)

		cells := doc.Tables[0].Cells
		if len(cells) != 2 {
			t.Fatalf("expected 2 cells, got %d", len(cells))
		}
		merged := cells[0]
		if merged.RowSpan != 2 || merged.ColumnSpan != 2 {
			t.Errorf("declared spans lost: %+v", merged)
		}
		if merged.Kind == nil || *merged.Kind != "columnHeader" {
			t.Errorf("cell kind lost: %v", merged.Kind)
		}

		plain := cells[1]
		if plain.RowSpan != 1 || plain.ColumnSpan != 1 {
			t.Errorf("absent spans should default to 1: %+v", plain)
		}
		if plain.Kind != nil {
			t.Errorf("absent kind should stay nil, got %v", *plain.Kind)
		}
	})
}
