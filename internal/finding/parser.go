package finding

import "strings"

// section identifies one accumulation bucket during parsing.
type section int

const (
	sectionNone section = iota
	sectionLocation
	sectionObservations
	sectionIssues
	sectionRecommendations
)

// headerSections maps a normalized header (lowercased, space-collapsed,
// without the trailing colon) to its bucket. Matching is exact: a sentence
// that merely ends in a colon never opens a section. Materials/Description
// and its aliases fold into observations so the record stays four-field.
var headerSections = map[string]section{
	"location":              sectionLocation,
	"materials/description": sectionObservations,
	"materials":             sectionObservations,
	"description":           sectionObservations,
	"observations":          sectionObservations,
	"what i see":            sectionObservations,
	"potential issues":      sectionIssues,
	"issues":                sectionIssues,
	"issues to address":     sectionIssues,
	"recommendations":       sectionRecommendations,
	"recommendation":        sectionRecommendations,
	"recommended action":    sectionRecommendations,
}

// noFindingMarkers are list entries that state the absence of a finding.
// They are dropped so an all-clear photo carries empty issue and
// recommendation lists instead of a sentence that trips keyword triage.
var noFindingMarkers = map[string]struct{}{
	"none":               {},
	"n/a":                {},
	"no issues":          {},
	"no issues found":    {},
	"no visible issues":  {},
	"no repairs needed":  {},
	"no action required": {},
	"no action needed":   {},
}

// Parse extracts a structured finding from raw analyzer text. Severity is
// left unset; a Classifier assigns it. Parse is a pure function: identical
// input always yields identical output.
func Parse(raw string) Finding {
	var f Finding
	var location []string

	current := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if sec, rest, ok := matchHeader(trimmed); ok {
			current = sec
			if rest != "" {
				appendContent(&f, &location, current, rest)
			}
			continue
		}
		// Text before the first header lands in observations so
		// unstructured model output is never dropped.
		target := current
		if target == sectionNone {
			target = sectionObservations
		}
		appendContent(&f, &location, target, trimmed)
	}

	f.Location = strings.Join(location, " ")
	return f
}

// matchHeader reports whether line opens a known section, returning the
// inline content after the colon when the header line carries any.
func matchHeader(line string) (section, string, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return sectionNone, "", false
	}
	head := strings.ToLower(strings.Join(strings.Fields(line[:idx]), " "))
	sec, ok := headerSections[head]
	if !ok {
		return sectionNone, "", false
	}
	return sec, strings.TrimSpace(line[idx+1:]), true
}

func appendContent(f *Finding, location *[]string, sec section, text string) {
	switch sec {
	case sectionLocation:
		*location = append(*location, text)
	case sectionObservations:
		if entry, ok := listEntry(text); ok {
			f.Observations = append(f.Observations, entry)
		}
	case sectionIssues:
		if entry, ok := listEntry(text); ok {
			f.PotentialIssues = append(f.PotentialIssues, entry)
		}
	case sectionRecommendations:
		if entry, ok := listEntry(text); ok {
			f.Recommendations = append(f.Recommendations, entry)
		}
	}
}

// listEntry strips a leading bullet marker and filters out entries that
// only state the absence of a finding.
func listEntry(text string) (string, bool) {
	entry := strings.TrimSpace(strings.TrimLeft(text, "-•*"))
	if entry == "" {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimRight(entry, ".!"))
	if _, skip := noFindingMarkers[normalized]; skip {
		return "", false
	}
	return entry, true
}
