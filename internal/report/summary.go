package report

import (
	"fmt"
	"os"
	"strings"
)

// WriteSummary writes the human-readable run summary. artifacts lists the
// run's produced files relative to the output directory, in display order.
func WriteSummary(doc *Document, path string, artifacts []string) error {
	var b strings.Builder

	b.WriteString("Property Inspection Report\n")
	b.WriteString("==========================\n\n")
	fmt.Fprintf(&b, "Report ID:  %s\n", doc.ReportID)
	fmt.Fprintf(&b, "Property:   %s\n", doc.PropertyAddress)
	if doc.ClientName != "" {
		fmt.Fprintf(&b, "Client:     %s\n", doc.ClientName)
	}
	fmt.Fprintf(&b, "Inspected:  %s\n", doc.InspectionDate)
	fmt.Fprintf(&b, "Generated:  %s\n\n", doc.GeneratedAt.Format("January 2, 2006 15:04 MST"))

	fmt.Fprintf(&b, "Photos analyzed: %d\n", doc.Statistics.TotalPhotos)
	fmt.Fprintf(&b, "  Critical:  %d\n", doc.Statistics.CriticalCount)
	fmt.Fprintf(&b, "  Important: %d\n", doc.Statistics.ImportantCount)
	fmt.Fprintf(&b, "  Minor:     %d\n", doc.Statistics.MinorCount)

	if len(artifacts) > 0 {
		b.WriteString("\nArtifacts:\n")
		for _, artifact := range artifacts {
			fmt.Fprintf(&b, "  %s\n", artifact)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
