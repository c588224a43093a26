package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"fieldlens/internal/imageset"
	"fieldlens/internal/pipeline"
	"fieldlens/internal/testsupport"
)

func writePhotoDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		testsupport.WriteImage(t, filepath.Join(dir, name), 64, 48)
	}
	return dir
}

type jsonReport struct {
	ReportID       string `json:"report_id"`
	ClientName     string `json:"client_name"`
	InspectionDate string `json:"inspection_date"`
	Items          []struct {
		Index        int      `json:"index"`
		Filename     string   `json:"filename"`
		WebPhoto     string   `json:"web_photo"`
		Observations []string `json:"observations"`
		Severity     string   `json:"severity"`
	} `json:"items"`
	Statistics struct {
		TotalPhotos    int `json:"total_photos"`
		CriticalCount  int `json:"critical_count"`
		ImportantCount int `json:"important_count"`
		MinorCount     int `json:"minor_count"`
	} `json:"statistics"`
}

func readJSONReport(t *testing.T, outputDir string) jsonReport {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outputDir, "report_data.json"))
	if err != nil {
		t.Fatalf("read report_data.json: %v", err)
	}
	var doc jsonReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse report_data.json: %v", err)
	}
	return doc
}

func TestRunScenarioThreePhotos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := writePhotoDir(t, "a.jpg", "b.jpg", "c.jpg")
	analyzer := &testsupport.ScriptedAnalyzer{Responses: map[string]string{
		"a.jpg": "Location: Hall\nObservations:\n- Clean walls\nPotential Issues:\n- None\nRecommendations:\n- None\n",
		"b.jpg": "Location: Basement\nObservations:\n- Dark staining\nPotential Issues:\n- Mold growth on joists\nRecommendations:\n- Remediate\n",
		"c.jpg": "Location: Garage\nObservations:\n- Slab floor\nPotential Issues:\n- Crack in slab\nRecommendations:\n- Monitor\n",
	}}

	var stdout bytes.Buffer
	res, err := pipeline.Run(context.Background(), cfg, source, pipeline.Options{
		ClientName:      "Dana Smith",
		PropertyAddress: "42 Oak Lane",
		InspectionDate:  "August 12, 2026",
		Analyzer:        analyzer,
		Stdout:          &stdout,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Status != pipeline.StatusSuccess {
		t.Errorf("Status = %q", res.Status)
	}
	if res.PhotoCount != 3 {
		t.Errorf("PhotoCount = %d", res.PhotoCount)
	}
	if !res.Artifacts.PDF || !res.Artifacts.JSON || !res.Artifacts.HTML {
		t.Errorf("Artifacts = %+v", res.Artifacts)
	}

	doc := readJSONReport(t, res.OutputDir)
	if doc.Statistics.TotalPhotos != 3 || doc.Statistics.CriticalCount != 1 ||
		doc.Statistics.ImportantCount != 1 || doc.Statistics.MinorCount != 1 {
		t.Errorf("statistics = %+v", doc.Statistics)
	}
	if doc.Items[1].Severity != "critical" {
		t.Errorf("items[1].severity = %q", doc.Items[1].Severity)
	}
	if doc.ReportID != res.ReportID {
		t.Errorf("json report id %q, result %q", doc.ReportID, res.ReportID)
	}

	// Durable layout.
	for _, rel := range []string{
		"photos/001_a.jpg",
		"photos/002_b.jpg",
		"analysis/002_b_analysis.txt",
		"pdf/42_oak_lane_inspection.pdf",
		"web/index.html",
		"web/report.json",
		"web/photos/photo_001.jpg",
		"summary.txt",
	} {
		if _, err := os.Stat(filepath.Join(res.OutputDir, rel)); err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
		}
	}
	pdfBytes, err := os.ReadFile(filepath.Join(res.OutputDir, "pdf", "42_oak_lane_inspection.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF-")) {
		t.Errorf("pdf artifact is not a PDF")
	}
}

var progressLine = regexp.MustCompile(`^\[\d+/3\] .+  \| elapsed \d+s  ETA ~\d+s$`)

func TestRunStdoutContract(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := writePhotoDir(t, "a.jpg", "b.jpg", "c.jpg")

	var stdout bytes.Buffer
	res, err := pipeline.Run(context.Background(), cfg, source, pipeline.Options{
		PropertyAddress: "42 Oak Lane",
		Analyzer:        &testsupport.ScriptedAnalyzer{},
		Stdout:          &stdout,
		Concurrency:     1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d stdout lines: %q", len(lines), lines)
	}
	if lines[0] != "Starting analysis of 3 images" {
		t.Errorf("line 0 = %q", lines[0])
	}
	for i := 1; i <= 3; i++ {
		if !progressLine.MatchString(lines[i]) {
			t.Errorf("line %d = %q does not match progress shape", i, lines[i])
		}
	}
	if want := "REPORT_ID=" + res.ReportID; lines[4] != want {
		t.Errorf("line 4 = %q, want %q", lines[4], want)
	}
	if want := "OUTPUT_DIR=" + res.OutputDir; lines[5] != want {
		t.Errorf("line 5 = %q, want %q", lines[5], want)
	}
}

func TestRunAnalyzerFailureKeepsAllPhotos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := writePhotoDir(t, "a.jpg", "b.jpg")
	analyzer := &testsupport.ScriptedAnalyzer{
		Failures: map[string]error{"a.jpg": errors.New("model unavailable")},
	}

	res, err := pipeline.Run(context.Background(), cfg, source, pipeline.Options{
		PropertyAddress: "42 Oak Lane",
		Analyzer:        analyzer,
		Stdout:          new(bytes.Buffer),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Per-item failure does not degrade the overall status.
	if res.Status != pipeline.StatusSuccess {
		t.Errorf("Status = %q", res.Status)
	}
	doc := readJSONReport(t, res.OutputDir)
	if len(doc.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(doc.Items))
	}
	found := false
	for _, obs := range doc.Items[0].Observations {
		if strings.Contains(obs, "Analysis failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("items[0].observations = %v, want fallback text", doc.Items[0].Observations)
	}

	pdfBytes, err := os.ReadFile(filepath.Join(res.OutputDir, "pdf", "42_oak_lane_inspection.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.Contains(pdfBytes, []byte("/Count 3")) {
		t.Errorf("pdf should have cover plus two photo pages")
	}
}

func TestRunSameHintSameSecondDistinctDirs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := writePhotoDir(t, "a.jpg")
	stamp := time.Date(2026, 8, 12, 14, 30, 5, 0, time.Local)
	opts := pipeline.Options{
		PropertyAddress: "42 Oak Lane",
		Analyzer:        &testsupport.ScriptedAnalyzer{},
		Stdout:          new(bytes.Buffer),
		Now:             func() time.Time { return stamp },
	}

	first, err := pipeline.Run(context.Background(), cfg, source, opts)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := pipeline.Run(context.Background(), cfg, source, opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.OutputDir == second.OutputDir {
		t.Fatalf("both runs used %s", first.OutputDir)
	}
	// The first run's artifacts are untouched by the second.
	if _, err := os.Stat(filepath.Join(first.OutputDir, "report_data.json")); err != nil {
		t.Errorf("first run artifact lost: %v", err)
	}
}

func TestRunZipSourceAndIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	zipPath := filepath.Join(t.TempDir(), "Smith Property.zip")
	testsupport.WriteImageZip(t, zipPath, "photos/a.jpg", "photos/b.jpg")

	res, err := pipeline.Run(context.Background(), cfg, zipPath, pipeline.Options{
		Analyzer: &testsupport.ScriptedAnalyzer{},
		Stdout:   new(bytes.Buffer),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.PhotoCount != 2 {
		t.Errorf("PhotoCount = %d", res.PhotoCount)
	}
	// Archive stem names the output directory when no address is given.
	if !strings.HasPrefix(filepath.Base(res.OutputDir), "smith_property_") {
		t.Errorf("OutputDir = %q", res.OutputDir)
	}

	entries, err := os.ReadDir(cfg.Paths.OutputsDir)
	if err != nil {
		t.Fatalf("read outputs root: %v", err)
	}
	foundIndex := false
	for _, entry := range entries {
		if entry.Name() == "reports_index.json" {
			foundIndex = true
		}
	}
	if !foundIndex {
		t.Errorf("reports_index.json not written")
	}
}

func TestRunEmptySourceFailsFast(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := t.TempDir()

	_, err := pipeline.Run(context.Background(), cfg, source, pipeline.Options{
		Analyzer: &testsupport.ScriptedAnalyzer{},
		Stdout:   new(bytes.Buffer),
	})
	if !errors.Is(err, imageset.ErrNoImages) {
		t.Fatalf("err = %v, want ErrNoImages", err)
	}
	entries, err := os.ReadDir(cfg.Paths.OutputsDir)
	if err != nil {
		t.Fatalf("read outputs root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("outputs root not empty after fatal failure: %v", entries)
	}
}

func TestRunRegistersWithPortal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := writePhotoDir(t, "a.jpg")

	res, err := pipeline.Run(context.Background(), cfg, source, pipeline.Options{
		ClientName:      "Dana Smith",
		ClientEmail:     "dana@example.com",
		PropertyAddress: "42 Oak Lane",
		Register:        true,
		Analyzer:        &testsupport.ScriptedAnalyzer{},
		Stdout:          new(bytes.Buffer),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Registration == nil {
		t.Fatal("Registration is nil")
	}
	if len(res.Registration.Token) != 32 {
		t.Errorf("token = %q", res.Registration.Token)
	}
	if !strings.Contains(res.Registration.ShareURL, res.Registration.Token) {
		t.Errorf("ShareURL = %q", res.Registration.ShareURL)
	}

	store := testsupport.MustOpenStore(t, cfg)
	info, err := store.ValidateToken(context.Background(), res.Registration.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if info.ReportID != res.ReportID {
		t.Errorf("token resolves to %q, want %q", info.ReportID, res.ReportID)
	}
}
