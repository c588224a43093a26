package pdf_test

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"fieldlens/internal/finding"
	"fieldlens/internal/report"
	"fieldlens/internal/report/pdf"
)

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(320, 240, color.NRGBA{R: 180, G: 170, B: 150, A: 255})
	if err := imaging.Save(img, path, imaging.JPEGQuality(90)); err != nil {
		t.Fatalf("write photo %s: %v", name, err)
	}
	return path
}

func TestRenderProducesPDF(t *testing.T) {
	dir := t.TempDir()
	doc := report.Assemble(report.Meta{
		ReportID:        report.NewReportID(),
		ClientName:      "Dana Client",
		PropertyAddress: "123 Main St",
		InspectionDate:  "March 5, 2026",
	}, []report.Item{
		{
			Index:      1,
			Filename:   "IMG_0001.jpg",
			SourcePath: writePhoto(t, dir, "IMG_0001.jpg"),
			Finding: finding.Finding{
				Location:     "Front porch",
				Observations: []string{"Railing is secure."},
				Severity:     finding.SeverityMinor,
			},
		},
		{
			Index:      2,
			Filename:   "IMG_0002.jpg",
			SourcePath: writePhoto(t, dir, "IMG_0002.jpg"),
			Finding: finding.Finding{
				Location:        "Bathroom",
				PotentialIssues: []string{"Suspected mold growth behind the vanity."},
				Recommendations: []string{"Have the area tested and remediated."},
				Severity:        finding.SeverityCritical,
			},
		},
	})

	outPath := filepath.Join(dir, "report.pdf")
	if err := pdf.Render(doc, outPath, pdf.Options{BusinessName: "Acme Inspections"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF (starts with %q)", data[:8])
	}
	// Cover plus one page per photo.
	if !bytes.Contains(data, []byte("/Count 3")) {
		t.Fatal("expected 3 pages (cover + 2 photos)")
	}
}

func TestRenderSurvivesUnreadablePhoto(t *testing.T) {
	dir := t.TempDir()
	doc := report.Assemble(report.Meta{
		ReportID:        report.NewReportID(),
		PropertyAddress: "123 Main St",
		InspectionDate:  "March 5, 2026",
	}, []report.Item{
		{
			Index:      1,
			Filename:   "missing.jpg",
			SourcePath: filepath.Join(dir, "missing.jpg"),
			Finding: finding.Finding{
				Observations: []string{"Analysis failed - no visible issues noted."},
				Severity:     finding.SeverityMinor,
			},
		},
	})

	outPath := filepath.Join(dir, "report.pdf")
	if err := pdf.Render(doc, outPath, pdf.Options{}); err != nil {
		t.Fatalf("Render with unreadable photo: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.Contains(data, []byte("/Count 2")) {
		t.Fatal("expected cover + text-only photo page")
	}
}
