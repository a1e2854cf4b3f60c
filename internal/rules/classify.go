package rules

import "strings"

// Document-type categories.
const (
	DocTypePriorAuth     = "Prior Authorization Guidelines"
	DocTypeClaimsFiling  = "Claims & Timely Filing"
	DocTypeAppeals       = "Appeals Process"
	DocTypeProviderMan   = "Provider Manual"
	DocTypeFeeSchedule   = "Fee Schedule"
	DocTypeCredentialing = "Credentialing Requirements"
	DocTypeGeneral       = "General Policy Document"
)

// classifiers is evaluated top to bottom; the first matching rule decides
// the document type. Order is the tie-break priority.
var classifiers = []struct {
	category string
	match    func(lower string) bool
}{
	{DocTypePriorAuth, func(s string) bool {
		return strings.Contains(s, "prior authorization") || strings.Contains(s, "pre-authorization")
	}},
	{DocTypeClaimsFiling, func(s string) bool {
		return strings.Contains(s, "claim") && strings.Contains(s, "timely filing")
	}},
	{DocTypeAppeals, func(s string) bool {
		return strings.Contains(s, "appeal")
	}},
	{DocTypeProviderMan, func(s string) bool {
		return strings.Contains(s, "provider manual")
	}},
	{DocTypeFeeSchedule, func(s string) bool {
		return strings.Contains(s, "fee schedule") || strings.Contains(s, "reimbursement")
	}},
	{DocTypeCredentialing, func(s string) bool {
		return strings.Contains(s, "credentialing")
	}},
}

// ClassifyDocument returns the document-type category for the text,
// defaulting to DocTypeGeneral when no rule matches.
func ClassifyDocument(text string) string {
	lower := strings.ToLower(text)
	for _, c := range classifiers {
		if c.match(lower) {
			return c.category
		}
	}
	return DocTypeGeneral
}
