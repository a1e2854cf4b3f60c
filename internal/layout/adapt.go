package layout

import "github.com/mwhitaker/policyscan/internal/docintel"

// FromAnalyzeResult normalizes a raw layout-analysis result into a
// Document. Absent pages, paragraphs, or tables degrade to empty slices;
// absent optional attributes stay nil rather than picking up zero values.
// Input order is preserved throughout.
func FromAnalyzeResult(sourceID string, result *docintel.AnalyzeResult) Document {
	doc := Document{
		SourceID:   sourceID,
		Pages:      []Page{},
		Paragraphs: []Paragraph{},
		Tables:     []Table{},
	}
	if result == nil {
		return doc
	}
	doc.FullText = result.Content

	for _, page := range result.Pages {
		doc.Pages = append(doc.Pages, adaptPage(page))
	}
	for _, para := range result.Paragraphs {
		doc.Paragraphs = append(doc.Paragraphs, adaptParagraph(para))
	}
	for i, table := range result.Tables {
		doc.Tables = append(doc.Tables, adaptTable(i+1, table))
	}
	return doc
}

func adaptPage(page docintel.Page) Page {
	out := Page{
		PageNumber: page.PageNumber,
		Dimensions: Dimensions{
			Width:  page.Width,
			Height: page.Height,
			Unit:   page.Unit,
		},
		Lines: []Line{},
	}
	for _, line := range page.Lines {
		out.Lines = append(out.Lines, Line{
			Text:        line.Content,
			Confidence:  line.Confidence,
			BoundingBox: line.Polygon,
		})
	}
	return out
}

func adaptParagraph(para docintel.Paragraph) Paragraph {
	out := Paragraph{
		Content: para.Content,
		Role:    para.Role,
	}
	if len(para.BoundingRegions) > 0 {
		pageNum := para.BoundingRegions[0].PageNumber
		out.PageNumber = &pageNum
	}
	return out
}

func adaptTable(id int, table docintel.Table) Table {
	out := Table{
		TableID:     id,
		RowCount:    table.RowCount,
		ColumnCount: table.ColumnCount,
		Cells:       []Cell{},
	}
	for _, cell := range table.Cells {
		out.Cells = append(out.Cells, Cell{
			Row:        cell.RowIndex,
			Column:     cell.ColumnIndex,
			Content:    cell.Content,
			Kind:       cell.Kind,
			RowSpan:    spanOrDefault(cell.RowSpan),
			ColumnSpan: spanOrDefault(cell.ColumnSpan),
		})
	}
	return out
}

func spanOrDefault(span *int) int {
	if span == nil {
		return 1
	}
	return *span
}
