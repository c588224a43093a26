package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldlens/internal/finding"
	"fieldlens/internal/report"
)

func sampleItems() []report.Item {
	return []report.Item{
		{
			Index:    1,
			Filename: "IMG_0001.jpg",
			WebPhoto: "photos/photo_001.jpg",
			Finding: finding.Finding{
				Location:     "Front porch",
				Observations: []string{"Railing is secure."},
				Severity:     finding.SeverityMinor,
			},
		},
		{
			Index:    2,
			Filename: "IMG_0002.jpg",
			WebPhoto: "photos/photo_002.jpg",
			Finding: finding.Finding{
				Location:        "Bathroom",
				Observations:    []string{"Dark staining behind the vanity."},
				PotentialIssues: []string{"Suspected mold growth."},
				Recommendations: []string{"Have the area tested and remediated."},
				Severity:        finding.SeverityCritical,
			},
		},
		{
			Index:    3,
			Filename: "IMG_0003.jpg",
			WebPhoto: "photos/photo_003.jpg",
			Finding: finding.Finding{
				Location:        "Driveway",
				Observations:    []string{"Surface crack across two panels."},
				PotentialIssues: []string{"Crack may widen over winter."},
				Recommendations: []string{"Seal the crack before the freeze."},
				Severity:        finding.SeverityImportant,
			},
		},
	}
}

func sampleMeta() report.Meta {
	return report.Meta{
		ReportID:        report.NewReportID(),
		ClientName:      "Dana Client",
		PropertyAddress: "123 Main St",
		InspectionDate:  "March 5, 2026",
	}
}

func TestAssembleComputesStatistics(t *testing.T) {
	doc := report.Assemble(sampleMeta(), sampleItems())

	want := report.Statistics{TotalPhotos: 3, CriticalCount: 1, ImportantCount: 1, MinorCount: 1}
	if doc.Statistics != want {
		t.Fatalf("statistics = %+v, want %+v", doc.Statistics, want)
	}
	if doc.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not stamped")
	}
}

func TestStatisticsMatchRecount(t *testing.T) {
	doc := report.Assemble(sampleMeta(), sampleItems())

	counts := map[finding.Severity]int{}
	for _, item := range doc.Items {
		counts[item.Finding.Severity]++
	}
	if doc.Statistics.CriticalCount != counts[finding.SeverityCritical] ||
		doc.Statistics.ImportantCount != counts[finding.SeverityImportant] ||
		doc.Statistics.MinorCount != counts[finding.SeverityMinor] {
		t.Fatalf("statistics drifted from recount: %+v vs %v", doc.Statistics, counts)
	}
}

func TestItemByFilename(t *testing.T) {
	doc := report.Assemble(sampleMeta(), sampleItems())

	if item, ok := doc.ItemByFilename("IMG_0002.jpg"); !ok || item.Index != 2 {
		t.Fatalf("exact lookup failed: %v %v", item, ok)
	}
	if item, ok := doc.ItemByFilename("img_0003.JPG"); !ok || item.Index != 3 {
		t.Fatalf("case-insensitive lookup failed: %v %v", item, ok)
	}
	if _, ok := doc.ItemByFilename("missing.jpg"); ok {
		t.Fatal("lookup miss must not return an arbitrary item")
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	doc := report.Assemble(sampleMeta(), sampleItems())
	path := filepath.Join(t.TempDir(), "report.json")

	if err := report.WriteJSON(doc, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded struct {
		ReportID string `json:"report_id"`
		Items    []struct {
			Index        int      `json:"index"`
			Severity     string   `json:"severity"`
			Observations []string `json:"observations"`
		} `json:"items"`
		Statistics report.Statistics `json:"statistics"`
		Categories struct {
			BySeverity map[string][]int `json:"by_severity"`
			ByType     map[string][]int `json:"by_type"`
			ByLocation map[string][]int `json:"by_location"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report json not standalone loadable: %v", err)
	}

	if decoded.ReportID != doc.ReportID {
		t.Fatalf("report_id = %q, want %q", decoded.ReportID, doc.ReportID)
	}
	if len(decoded.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(decoded.Items))
	}
	if decoded.Items[1].Severity != "critical" {
		t.Fatalf("items[1].severity = %q", decoded.Items[1].Severity)
	}
	if decoded.Statistics != doc.Statistics {
		t.Fatalf("statistics = %+v", decoded.Statistics)
	}
	if got := decoded.Categories.BySeverity["critical"]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("by_severity[critical] = %v", got)
	}
	if got := decoded.Categories.ByLocation["Driveway"]; len(got) != 1 || got[0] != 3 {
		t.Fatalf("by_location[Driveway] = %v", got)
	}
	// Observations must encode as arrays even when empty.
	if decoded.Items[0].Observations == nil {
		t.Fatal("observations encoded as null")
	}
}

func TestWriteJSONTypeCategories(t *testing.T) {
	items := sampleItems()
	doc := report.Assemble(sampleMeta(), items)

	data, err := report.EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	var decoded struct {
		Categories struct {
			ByType map[string][]int `json:"by_type"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Item 3 mentions "crack" (not a type keyword) but no water/electrical
	// terms; item 2 mentions mold, which is not a type keyword either. The
	// driveway crack item is not water-related, so only explicit keyword
	// mentions produce tags.
	for label, indexes := range decoded.Categories.ByType {
		if len(indexes) == 0 {
			t.Fatalf("empty category %q", label)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	doc := report.Assemble(sampleMeta(), sampleItems())
	path := filepath.Join(t.TempDir(), "summary.txt")

	if err := report.WriteSummary(doc, path, []string{"pdf/123_Main_St_inspection.pdf", "web/report.json"}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	text := string(data)
	for _, want := range []string{"123 Main St", "Dana Client", "Critical:  1", "pdf/123_Main_St_inspection.pdf"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}
