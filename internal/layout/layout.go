// Package layout defines the canonical document model produced from raw
// layout-analysis results. The rest of the pipeline only ever sees these
// records, never provider-specific response shapes.
package layout

// Document is the normalized form of one analyzed PDF. It is built once by
// FromAnalyzeResult and not mutated afterwards.
type Document struct {
	SourceID   string      `json:"source_blob"`
	FullText   string      `json:"full_text"`
	Pages      []Page      `json:"pages"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Tables     []Table     `json:"tables"`
}

// Page is one page with its geometry and recognized lines.
type Page struct {
	PageNumber int        `json:"page_number"`
	Dimensions Dimensions `json:"dimensions"`
	Lines      []Line     `json:"lines"`
}

// Dimensions is page geometry in the provider's unit of measure.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// Line is a recognized line of text. Confidence and bounding box stay nil
// when the provider did not report them.
type Line struct {
	Text        string    `json:"text"`
	Confidence  *float64  `json:"confidence"`
	BoundingBox []float64 `json:"bounding_box"`
}

// Paragraph is a logical paragraph. Role is a structural tag (title,
// sectionHeading, ...) when the provider assigned one. PageNumber is a weak
// reference to the page the paragraph starts on.
type Paragraph struct {
	Content    string  `json:"content"`
	Role       *string `json:"role"`
	PageNumber *int    `json:"page_number,omitempty"`
}

// Table is a recognized table. TableID is assigned by appearance order
// starting at 1, independent of anything the provider supplies.
type Table struct {
	TableID     int    `json:"table_id"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	Cells       []Cell `json:"cells"`
}

// Cell is a single table cell. Spans default to 1 when the provider omits
// them: an undeclared span occupies exactly one row and column.
type Cell struct {
	Row        int     `json:"row"`
	Column     int     `json:"column"`
	Content    string  `json:"content"`
	Kind       *string `json:"kind"`
	RowSpan    int     `json:"row_span"`
	ColumnSpan int     `json:"column_span"`
}
