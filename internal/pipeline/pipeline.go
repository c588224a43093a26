// Package pipeline runs a photo set end to end: collection, concurrent
// analysis, finding extraction, and artifact rendering into a fresh
// output directory, with optional portal registration.
//
// Four stdout line shapes are a stable contract parsed by external
// tooling and never change:
//
//	Starting analysis of {N} images
//	[{i}/{N}] {image name}  | elapsed {X}s  ETA ~{Y}s
//	REPORT_ID={id}
//	OUTPUT_DIR={path}
//
// Logs go to stderr or the log file; stdout carries only these lines.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldlens/internal/analysis"
	"fieldlens/internal/config"
	"fieldlens/internal/fileutil"
	"fieldlens/internal/finding"
	"fieldlens/internal/imageset"
	"fieldlens/internal/layout"
	"fieldlens/internal/logging"
	"fieldlens/internal/portal"
	"fieldlens/internal/report"
	"fieldlens/internal/report/pdf"
	"fieldlens/internal/report/web"
	"fieldlens/internal/vision"
)

// inspectionDateLayout is the display format for inspection dates.
const inspectionDateLayout = "January 2, 2006"

// Status summarizes a finished run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Artifacts reports which renderers produced their output. Callers
// check these booleans rather than assuming files exist.
type Artifacts struct {
	PDF  bool
	JSON bool
	HTML bool
}

// Result is the outcome of one pipeline run.
type Result struct {
	Status       Status
	ReportID     string
	OutputDir    string
	Artifacts    Artifacts
	PhotoCount   int
	Registration *portal.Registration
}

// Options carries per-run inputs beyond the configuration.
type Options struct {
	ClientName      string
	ClientEmail     string
	PropertyAddress string
	// InspectionDate, when set, is used verbatim. Otherwise the earliest
	// EXIF capture timestamp across the set wins, then today.
	InspectionDate string
	// Concurrency overrides analysis.concurrency when positive.
	Concurrency int
	// Register records the report in the portal store after rendering.
	Register bool

	// Analyzer overrides the configured provider when set.
	Analyzer vision.Analyzer
	// Stdout receives the contract lines; defaults to os.Stdout.
	Stdout io.Writer
	Logger *slog.Logger
	// Now stamps the output directory; defaults to time.Now.
	Now func() time.Time
}

// Run executes the pipeline over source, a ZIP archive or a directory
// of photos. Fatal failures before any partial work return an error;
// per-item and per-renderer failures degrade the Result instead.
func Run(ctx context.Context, cfg *config.Config, source string, opts Options) (*Result, error) {
	logger := logging.WithComponent(opts.Logger, "pipeline")
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	refs, cleanup, err := imageset.Collect(source)
	if err != nil {
		return nil, fmt.Errorf("collect photos: %w", err)
	}
	defer cleanup()

	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer, err = vision.New(cfg, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("build analyzer: %w", err)
		}
	}

	l, err := layout.Create(cfg.Paths.OutputsDir, dirHint(source, opts.PropertyAddress), now())
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	logger.Info("created output directory", logging.FieldDir, l.Dir)

	fmt.Fprintf(stdout, "Starting analysis of %d images\n", len(refs))
	results := analysis.Run(ctx, analyzer, refs, analysis.Options{
		Concurrency: pickConcurrency(opts.Concurrency, cfg.Analysis.Concurrency),
		Logger:      opts.Logger,
		OnProgress: func(p analysis.Progress) {
			fmt.Fprintf(stdout, "[%d/%d] %s  | elapsed %ds  ETA ~%ds\n",
				p.Completed, p.Total, p.Image,
				int(p.Elapsed.Seconds()), int(p.ETA.Seconds()))
		},
	})

	classifier := finding.NewClassifier(cfg.Severity.ExtraCritical, cfg.Severity.ExtraImportant)
	items := buildItems(l, results, classifier, logger)

	meta := report.Meta{
		ReportID:        report.NewReportID(),
		ClientName:      strings.TrimSpace(opts.ClientName),
		PropertyAddress: strings.TrimSpace(opts.PropertyAddress),
		InspectionDate:  inspectionDate(opts.InspectionDate, refs, now),
	}
	doc := report.Assemble(meta, items)

	fmt.Fprintf(stdout, "REPORT_ID=%s\n", doc.ReportID)
	fmt.Fprintf(stdout, "OUTPUT_DIR=%s\n", l.Dir)

	res := &Result{
		Status:     StatusSuccess,
		ReportID:   doc.ReportID,
		OutputDir:  l.Dir,
		PhotoCount: len(items),
	}

	res.Artifacts = render(doc, l, cfg, logger)
	if !res.Artifacts.PDF || !res.Artifacts.JSON || !res.Artifacts.HTML {
		res.Status = StatusPartial
	}

	writeSummary(doc, l, res.Artifacts, logger)
	updateIndex(l, doc, now(), logger)

	if opts.Register {
		reg, err := registerReport(ctx, cfg, doc, l.Dir, opts)
		if err != nil {
			logger.Error("portal registration failed", logging.Error(err))
			res.Status = StatusPartial
		} else {
			res.Registration = reg
		}
	}

	return res, nil
}

// dirHint names the output directory: property address when supplied,
// otherwise the source archive or directory stem.
func dirHint(source, address string) string {
	if strings.TrimSpace(address) != "" {
		return address
	}
	base := filepath.Base(filepath.Clean(source))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pickConcurrency(override, configured int) int {
	if override > 0 {
		return override
	}
	if configured > 0 {
		return configured
	}
	return analysis.DefaultConcurrency
}

func inspectionDate(explicit string, refs []imageset.ImageRef, now func() time.Time) string {
	if strings.TrimSpace(explicit) != "" {
		return strings.TrimSpace(explicit)
	}
	if taken, ok := imageset.EarliestTakenAt(refs); ok {
		return taken.Format(inspectionDateLayout)
	}
	return now().Format(inspectionDateLayout)
}

// buildItems parses and classifies each analysis result and lays down
// the per-photo files: archival copy, raw transcript, and the web-sized
// copy. File placement failures degrade a single photo, never the run.
func buildItems(l *layout.Layout, results []analysis.Result, classifier *finding.Classifier, logger *slog.Logger) []report.Item {
	items := make([]report.Item, 0, len(results))
	for _, res := range results {
		f := finding.Parse(res.Text)
		f.Severity = classifier.Classify(f)

		if _, err := l.PlacePhoto(res.Ref.Index, res.Ref.Path); err != nil {
			logger.Warn("photo archive copy failed",
				logging.FieldImage, res.Ref.Name, logging.Error(err))
		}
		if _, err := l.WriteAnalysis(res.Ref.Index, res.Ref.Name, res.Text); err != nil {
			logger.Warn("analysis transcript write failed",
				logging.FieldImage, res.Ref.Name, logging.Error(err))
		}
		webPhoto, err := l.PlaceWebPhoto(res.Ref.Index, res.Ref.Path)
		if err != nil {
			logger.Warn("web photo copy failed",
				logging.FieldImage, res.Ref.Name, logging.Error(err))
			webPhoto = filepath.ToSlash(filepath.Join("photos",
				layout.WebPhotoName(res.Ref.Index, res.Ref.Name)))
		}

		items = append(items, report.Item{
			Index:      res.Ref.Index,
			Filename:   res.Ref.Name,
			SourcePath: res.Ref.Path,
			WebPhoto:   webPhoto,
			Finding:    f,
		})
	}
	return items
}

// render runs the three renderers. Each failure is logged and the rest
// still run.
func render(doc *report.Document, l *layout.Layout, cfg *config.Config, logger *slog.Logger) Artifacts {
	var a Artifacts

	pdfPath := l.PDFPath(doc.PropertyAddress + " inspection")
	if err := pdf.Render(doc, pdfPath, pdf.Options{
		BusinessName:  cfg.PDF.BusinessName,
		BusinessLine1: cfg.PDF.BusinessLine1,
		BusinessLine2: cfg.PDF.BusinessLine2,
		BannerPath:    cfg.PDF.BannerPath,
		Logger:        logger,
	}); err != nil {
		logger.Error("pdf render failed", logging.FieldArtifact, "pdf", logging.Error(err))
	} else {
		a.PDF = true
	}

	if err := report.WriteJSON(doc, l.WebJSONPath()); err != nil {
		logger.Error("json render failed", logging.FieldArtifact, "json", logging.Error(err))
	} else if err := fileutil.CopyFile(l.WebJSONPath(), l.JSONPath()); err != nil {
		logger.Error("json copy failed", logging.FieldArtifact, "json", logging.Error(err))
	} else {
		a.JSON = true
	}

	if err := web.Render(doc, l.WebDir, web.Options{
		TemplateDir:  cfg.Paths.TemplateDir,
		TemplateName: cfg.Web.TemplateName,
		Logger:       logger,
	}); err != nil {
		logger.Error("gallery render failed", logging.FieldArtifact, "html", logging.Error(err))
	} else {
		a.HTML = true
	}

	return a
}

func writeSummary(doc *report.Document, l *layout.Layout, a Artifacts, logger *slog.Logger) {
	var artifacts []string
	if a.PDF {
		artifacts = append(artifacts, l.PDFPath(doc.PropertyAddress+" inspection"))
	}
	if a.JSON {
		artifacts = append(artifacts, l.JSONPath())
	}
	if a.HTML {
		artifacts = append(artifacts, l.HTMLPath())
	}
	if err := report.WriteSummary(doc, l.SummaryPath(), artifacts); err != nil {
		logger.Warn("summary write failed", logging.Error(err))
	}
}

func updateIndex(l *layout.Layout, doc *report.Document, now time.Time, logger *slog.Logger) {
	err := layout.UpsertIndex(l.Root, layout.IndexEntry{
		ReportID:        doc.ReportID,
		Dir:             l.DirName,
		ClientName:      doc.ClientName,
		PropertyAddress: doc.PropertyAddress,
		InspectionDate:  doc.InspectionDate,
		PhotoCount:      doc.Statistics.TotalPhotos,
		CreatedAt:       now.UTC(),
	})
	if err != nil {
		logger.Warn("report index update failed", logging.Error(err))
	}
}

func registerReport(ctx context.Context, cfg *config.Config, doc *report.Document, outputDir string, opts Options) (*portal.Registration, error) {
	store, err := portal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open portal store: %w", err)
	}
	defer store.Close()

	return store.Register(ctx, doc, outputDir, portal.RegisterOptions{
		ClientName:  opts.ClientName,
		ClientEmail: opts.ClientEmail,
	})
}
