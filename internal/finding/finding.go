package finding

// Severity is the triage tier assigned to a finding.
type Severity string

const (
	// SeverityCritical marks safety or structural problems needing
	// immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityImportant marks actionable repair or maintenance items.
	SeverityImportant Severity = "important"
	// SeverityMinor marks everything else, including clean photos.
	SeverityMinor Severity = "minor"
)

// Finding is the structured extraction from one photo's analysis text.
type Finding struct {
	Location        string   `json:"location"`
	Observations    []string `json:"observations"`
	PotentialIssues []string `json:"potential_issues"`
	Recommendations []string `json:"recommendations"`
	Severity        Severity `json:"severity"`
}
