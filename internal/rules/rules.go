package rules

// Metadata is the healthcare annotation for one document.
type Metadata struct {
	PayerName     *string        `json:"payer_name"`
	DocumentType  string         `json:"document_type"`
	DetectedRules []DetectedRule `json:"detected_rules"`
}

// Extract runs payer detection, document classification, and rule mining
// over the full document text.
func Extract(text string) Metadata {
	meta := Metadata{
		DocumentType:  ClassifyDocument(text),
		DetectedRules: MineRules(text),
	}
	if payer, ok := DetectPayer(text); ok {
		meta.PayerName = &payer
	}
	if meta.DetectedRules == nil {
		meta.DetectedRules = []DetectedRule{}
	}
	return meta
}

// CategoryCounts returns the number of detected rules per category, in the
// rule table's category order. Categories with no hits are omitted.
func (m Metadata) CategoryCounts() []CategoryCount {
	byCategory := make(map[string]int, len(m.DetectedRules))
	for _, r := range m.DetectedRules {
		byCategory[r.Category]++
	}

	var counts []CategoryCount
	for _, rc := range ruleTable {
		if n := byCategory[rc.Category]; n > 0 {
			counts = append(counts, CategoryCount{Category: rc.Category, Count: n})
		}
	}
	return counts
}

// CategoryCount is a per-category rule tally for reporting.
type CategoryCount struct {
	Category string
	Count    int
}
