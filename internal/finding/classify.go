package finding

import "strings"

// Rule pairs a keyword set with the severity any match produces.
type Rule struct {
	Keywords []string
	Result   Severity
}

// criticalKeywords flag safety and structural hazards.
var criticalKeywords = []string{
	"structural",
	"foundation",
	"roof leak",
	"electrical hazard",
	"gas leak",
	"mold",
	"asbestos",
	"safety",
	"immediate",
	"dangerous",
}

// importantKeywords flag actionable repair and maintenance items.
// "deteriorat" matches deteriorate, deteriorating, and deterioration.
var importantKeywords = []string{
	"repair",
	"replace",
	"damage",
	"deteriorat",
	"crack",
	"leak",
	"moisture",
	"worn",
	"failing",
	"maintenance needed",
}

// Classifier assigns a severity by evaluating an ordered rule table
// top-down against a finding's issue and recommendation text. The first
// matching rule wins, which is what makes critical beat important.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier from the built-in rule table, with
// extra keywords appended to the matching tier. Extras never replace the
// base sets.
func NewClassifier(extraCritical, extraImportant []string) *Classifier {
	critical := append(append([]string{}, criticalKeywords...), lowerAll(extraCritical)...)
	important := append(append([]string{}, importantKeywords...), lowerAll(extraImportant)...)
	return &Classifier{
		rules: []Rule{
			{Keywords: critical, Result: SeverityCritical},
			{Keywords: important, Result: SeverityImportant},
		},
	}
}

// Classify returns the severity for a finding, derived from its issues and
// recommendations only. Observations never escalate a photo.
func (c *Classifier) Classify(f Finding) Severity {
	parts := make([]string, 0, len(f.PotentialIssues)+len(f.Recommendations))
	parts = append(parts, f.PotentialIssues...)
	parts = append(parts, f.Recommendations...)
	return c.ClassifyText(strings.Join(parts, " "))
}

// ClassifyText evaluates the rule table against free text. Exposed so the
// triage behavior can be tested directly.
func (c *Classifier) ClassifyText(text string) Severity {
	lowered := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Result
			}
		}
	}
	return SeverityMinor
}

func lowerAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
