package rules

import "strings"

// contextChars is how much surrounding text is kept on each side of a
// matched trigger phrase.
const contextChars = 200

// Rule categories.
const (
	CategoryPriorAuthorization = "prior_authorization"
	CategoryTimelyFiling       = "timely_filing"
	CategoryAppealDeadline     = "appeal_deadline"
	CategoryDocumentation      = "documentation"
	CategoryNotification       = "notification"
)

// ruleCategory maps one rule category to its trigger phrases.
type ruleCategory struct {
	Category string
	Phrases  []string
}

// ruleTable drives rule mining. The slice order fixes the order of mined
// rules in the output; every phrase in a category is tested independently.
var ruleTable = []ruleCategory{
	{CategoryPriorAuthorization, []string{"prior authorization required", "pre-auth required", "pa required"}},
	{CategoryTimelyFiling, []string{"timely filing", "filing deadline", "claim submission deadline"}},
	{CategoryAppealDeadline, []string{"appeal within", "appeal deadline", "days to appeal"}},
	{CategoryDocumentation, []string{"documentation required", "medical records required"}},
	{CategoryNotification, []string{"notification required", "must notify", "advance notice"}},
}

// DetectedRule is one mined rule occurrence: the category, the exact
// phrase that matched, and the original-case text surrounding the first
// occurrence of that phrase.
type DetectedRule struct {
	Category string `json:"type"`
	Pattern  string `json:"pattern_matched"`
	Context  string `json:"rule_text"`
}

// MineRules scans the text for every trigger phrase in the rule table.
// A phrase that occurs contributes exactly one DetectedRule (first
// occurrence only); several phrases of the same category can each
// contribute one.
func MineRules(text string) []DetectedRule {
	var rules []DetectedRule
	lower := strings.ToLower(text)

	for _, rc := range ruleTable {
		for _, phrase := range rc.Phrases {
			if strings.Contains(lower, phrase) {
				rules = append(rules, DetectedRule{
					Category: rc.Category,
					Pattern:  phrase,
					Context:  contextWindow(text, lower, phrase),
				})
			}
		}
	}
	return rules
}

// contextWindow returns the original-case text around the first occurrence
// of phrase, clipped to the text bounds and trimmed. Returns "" if the
// phrase is somehow absent.
func contextWindow(text, lower, phrase string) string {
	idx := strings.Index(lower, phrase)
	if idx == -1 {
		return ""
	}

	start := idx - contextChars
	if start < 0 {
		start = 0
	}
	end := idx + len(phrase) + contextChars
	if end > len(text) {
		end = len(text)
	}

	return strings.TrimSpace(text[start:end])
}
