// Package rules implements the healthcare enrichment heuristics: payer
// detection, document-type classification, and rule-pattern mining. All
// matching is ordered keyword matching over lower-cased text; the tables
// are fixed in-process and their order is part of the contract, since
// downstream consumers rely on deterministic first-match output.
package rules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// payerVariants is scanned in order; the first variant found wins even if
// later variants also appear. One payer per document, by design.
var payerVariants = []string{
	"united healthcare", "unitedhealthcare", "uhc",
	"anthem", "elevance",
	"aetna", "cvs health",
	"kaiser permanente",
	"cigna", "humana",
	"blue cross blue shield", "bcbs",
	"centene", "molina healthcare",
}

var titleCaser = cases.Title(language.English)

// DetectPayer returns the title-cased form of the first known payer
// variant found in the text, or false if none match.
func DetectPayer(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, variant := range payerVariants {
		if strings.Contains(lower, variant) {
			return titleCaser.String(variant), true
		}
	}
	return "", false
}
