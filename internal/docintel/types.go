package docintel

import "time"

// Operation statuses reported by the analyze polling endpoint.
const (
	StatusNotStarted = "notStarted"
	StatusRunning    = "running"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)

// AnalyzeOperation is the envelope returned while polling an analyze
// operation. AnalyzeResult is only populated once Status is succeeded.
type AnalyzeOperation struct {
	Status              string         `json:"status"`
	CreatedDateTime     time.Time      `json:"createdDateTime"`
	LastUpdatedDateTime time.Time      `json:"lastUpdatedDateTime"`
	Error               *ServiceDetail `json:"error,omitempty"`
	AnalyzeResult       *AnalyzeResult `json:"analyzeResult,omitempty"`
}

// AnalyzeResult is the raw layout-analysis result. Fields the service only
// emits for certain document models are pointers so absence survives
// decoding; the layout adapter is the only consumer of these optionals.
type AnalyzeResult struct {
	APIVersion string      `json:"apiVersion"`
	ModelID    string      `json:"modelId"`
	Content    string      `json:"content"`
	Pages      []Page      `json:"pages"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Tables     []Table     `json:"tables"`
}

// Page is one analyzed page with its recognized lines.
type Page struct {
	PageNumber int     `json:"pageNumber"`
	Angle      float64 `json:"angle"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Unit       string  `json:"unit"`
	Lines      []Line  `json:"lines"`
}

// Line is a recognized line of text. Confidence and polygon are optional
// provider attributes.
type Line struct {
	Content    string    `json:"content"`
	Confidence *float64  `json:"confidence,omitempty"`
	Polygon    []float64 `json:"polygon,omitempty"`
}

// Paragraph is a logical paragraph, optionally tagged with a structural
// role (title, sectionHeading, footnote, ...).
type Paragraph struct {
	Content         string           `json:"content"`
	Role            *string          `json:"role,omitempty"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
}

// BoundingRegion places content on a page.
type BoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon,omitempty"`
}

// Table is a recognized table with its cells.
type Table struct {
	RowCount    int         `json:"rowCount"`
	ColumnCount int         `json:"columnCount"`
	Cells       []TableCell `json:"cells"`
}

// TableCell is a single table cell. Kind and spans are only present for
// some document models; spans default to one cell when absent.
type TableCell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
	Kind        *string `json:"kind,omitempty"`
	RowSpan     *int   `json:"rowSpan,omitempty"`
	ColumnSpan  *int   `json:"columnSpan,omitempty"`
}

// ServiceDetail is the error payload inside service responses.
type ServiceDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ServiceDetail `json:"error"`
}
