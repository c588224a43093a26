package finding_test

import (
	"testing"

	"fieldlens/internal/finding"
)

func TestClassifyTextTiers(t *testing.T) {
	classifier := finding.NewClassifier(nil, nil)

	cases := []struct {
		name string
		text string
		want finding.Severity
	}{
		{"empty", "", finding.SeverityMinor},
		{"benign", "paint is slightly faded on the south wall", finding.SeverityMinor},
		{"important keyword", "recommend repair of the loose gutter strap", finding.SeverityImportant},
		{"deteriorating stem", "sealant is deteriorating along the window frame", finding.SeverityImportant},
		{"critical keyword", "possible mold growth behind the baseboard", finding.SeverityCritical},
		{"critical beats important", "crack in the foundation should be repaired", finding.SeverityCritical},
		{"case folded", "ELECTRICAL HAZARD at the panel", finding.SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifier.ClassifyText(tc.text); got != tc.want {
				t.Fatalf("ClassifyText(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyMonotonicUnderCriticalKeyword(t *testing.T) {
	classifier := finding.NewClassifier(nil, nil)

	texts := []string{
		"",
		"minor scuff on the trim",
		"replace the worn weatherstripping",
		"crack and moisture around the sill needs repair",
	}
	for _, text := range texts {
		if got := classifier.ClassifyText(text + " structural"); got != finding.SeverityCritical {
			t.Fatalf("ClassifyText(%q + structural) = %q, want critical", text, got)
		}
	}
}

func TestClassifyUsesIssuesAndRecommendationsOnly(t *testing.T) {
	classifier := finding.NewClassifier(nil, nil)

	f := finding.Finding{
		Observations: []string{"decorative molding along the ceiling has a mold-like texture"},
	}
	if got := classifier.Classify(f); got != finding.SeverityMinor {
		t.Fatalf("observations must not escalate severity, got %q", got)
	}

	f.PotentialIssues = []string{"suspected mold behind the vanity"}
	if got := classifier.Classify(f); got != finding.SeverityCritical {
		t.Fatalf("Classify = %q, want critical", got)
	}
}

func TestClassifyExtraKeywordsAppend(t *testing.T) {
	classifier := finding.NewClassifier([]string{"sinkhole"}, []string{"peeling"})

	if got := classifier.ClassifyText("possible sinkhole forming near the patio"); got != finding.SeverityCritical {
		t.Fatalf("extra critical keyword ignored, got %q", got)
	}
	if got := classifier.ClassifyText("peeling paint on the fascia"); got != finding.SeverityImportant {
		t.Fatalf("extra important keyword ignored, got %q", got)
	}
	// The built-in table still applies.
	if got := classifier.ClassifyText("gas leak at the meter"); got != finding.SeverityCritical {
		t.Fatalf("built-in keyword lost, got %q", got)
	}
}
