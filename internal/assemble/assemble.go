// Package assemble combines a canonical document and its healthcare
// metadata into the final JSON artifact.
package assemble

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwhitaker/policyscan/internal/layout"
	"github.com/mwhitaker/policyscan/internal/rules"
)

// ExtractionDocument is the persisted artifact for one processed PDF.
// Construct it with New; RulesCount is always derived from the detected
// rules, never set independently.
type ExtractionDocument struct {
	SourceBlob     string             `json:"source_blob"`
	ExtractionDate string             `json:"extraction_date"`
	PageCount      int                `json:"page_count"`
	FullText       string             `json:"full_text"`
	Pages          []layout.Page      `json:"pages"`
	Paragraphs     []layout.Paragraph `json:"paragraphs"`
	Tables         []layout.Table     `json:"tables"`
	Metadata       rules.Metadata     `json:"healthcare_metadata"`
	RulesCount     int                `json:"healthcare_rules_count"`
}

// New builds the extraction document. The timestamp is recorded in UTC.
func New(doc layout.Document, meta rules.Metadata, now time.Time) *ExtractionDocument {
	return &ExtractionDocument{
		SourceBlob:     doc.SourceID,
		ExtractionDate: now.UTC().Format(time.RFC3339),
		PageCount:      len(doc.Pages),
		FullText:       doc.FullText,
		Pages:          doc.Pages,
		Paragraphs:     doc.Paragraphs,
		Tables:         doc.Tables,
		Metadata:       meta,
		RulesCount:     len(meta.DetectedRules),
	}
}

// Marshal validates the document against the artifact schema and renders
// it as indented JSON.
func (d *ExtractionDocument) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize extraction document: %w", err)
	}
	if err := validateArtifact(data); err != nil {
		return nil, err
	}
	return data, nil
}
