// Package pdf renders the assembled report document as a print-weight PDF:
// a branded cover page followed by one page per photo with the embedded
// image on the left and the finding's sections on the right.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-pdf/fpdf"

	"fieldlens/internal/imageproc"
	"fieldlens/internal/logging"
	"fieldlens/internal/report"
)

// Page geometry, points on US Letter (612 x 792).
const (
	margin     = 36.0
	photoMaxW  = 259.0
	photoMaxH  = 576.0
	noteGap    = 29.0
	noteX      = margin + photoMaxW + noteGap
	badgeSize  = 11.5
	headerSize = 10.0
)

// Brand palette.
var (
	brandPrimary   = rgb{11, 30, 46}
	brandSecondary = rgb{17, 58, 92}
	bodyGray       = rgb{43, 43, 43}
	criticalRed    = rgb{204, 0, 0}
	importantOrng  = rgb{255, 102, 0}
)

type rgb struct{ r, g, b int }

// Options carries cover-page branding. All fields are optional; a missing
// or unreadable banner is skipped, never fatal.
type Options struct {
	BusinessName  string
	BusinessLine1 string
	BusinessLine2 string
	BannerPath    string
	Logger        *slog.Logger
}

// Render writes the PDF report to outPath. Photo pages appear in item
// sequence order. A photo that cannot be re-encoded gets a text-only page
// so the report never silently drops an item.
func Render(doc *report.Document, outPath string, opts Options) error {
	logger := logging.WithComponent(opts.Logger, "pdf")

	p := fpdf.New("P", "pt", "Letter", "")
	p.SetTitle("Property Inspection Report", true)
	p.SetAutoPageBreak(true, margin)

	drawCover(p, doc, opts)

	pageW, _ := p.GetPageSize()
	total := len(doc.Items)
	for _, item := range doc.Items {
		p.AddPage()
		drawPageHeader(p, doc.PropertyAddress)

		setColor(p, brandPrimary)
		p.SetFont("Helvetica", "B", 14)
		p.SetXY(margin, margin)
		p.CellFormat(pageW-2*margin, 18,
			fmt.Sprintf("Photo %d of %d: %s", item.Index, total, item.Filename),
			"", 1, "L", false, 0, "")

		photoTop := p.GetY() + 6
		if err := drawPhoto(p, item, photoTop); err != nil {
			logger.Warn("photo embed failed",
				logging.FieldImage, item.Filename,
				logging.Error(err))
			p.SetFont("Helvetica", "", 10)
			setColor(p, bodyGray)
			p.SetXY(margin, photoTop)
			p.CellFormat(photoMaxW, 14, "[image unavailable]", "", 1, "L", false, 0, "")
		}

		drawBadge(p, item, photoTop)
		drawNotes(p, item, photoTop, pageW)
	}

	if err := p.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawCover(p *fpdf.Fpdf, doc *report.Document, opts Options) {
	p.AddPage()
	pageW, pageH := p.GetPageSize()

	if opts.BannerPath != "" {
		if _, err := os.Stat(opts.BannerPath); err == nil {
			p.ImageOptions(opts.BannerPath, margin, margin, pageW-2*margin, 54, false,
				fpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	y := pageH/2 - 80
	setColor(p, brandPrimary)
	p.SetFont("Helvetica", "B", 24)
	p.SetXY(margin, y)
	p.CellFormat(pageW-2*margin, 30, "Property Inspection Report", "", 1, "C", false, 0, "")

	p.SetFont("Helvetica", "", 18)
	p.CellFormat(pageW-2*margin, 26, doc.PropertyAddress, "", 1, "C", false, 0, "")

	p.SetFont("Helvetica", "", 12)
	p.CellFormat(pageW-2*margin, 20, "Inspection date: "+doc.InspectionDate, "", 1, "C", false, 0, "")
	if doc.ClientName != "" {
		p.CellFormat(pageW-2*margin, 20, "Prepared for: "+doc.ClientName, "", 1, "C", false, 0, "")
	}
	p.CellFormat(pageW-2*margin, 20,
		fmt.Sprintf("%d photographs analyzed", doc.Statistics.TotalPhotos),
		"", 1, "C", false, 0, "")

	if opts.BusinessName != "" {
		p.Ln(30)
		p.SetFont("Helvetica", "", 11)
		p.CellFormat(pageW-2*margin, 16, "Prepared by:", "", 1, "C", false, 0, "")
		p.SetFont("Helvetica", "B", 12)
		p.CellFormat(pageW-2*margin, 16, opts.BusinessName, "", 1, "C", false, 0, "")
		p.SetFont("Helvetica", "", 11)
		if opts.BusinessLine1 != "" {
			p.CellFormat(pageW-2*margin, 15, opts.BusinessLine1, "", 1, "C", false, 0, "")
		}
		if opts.BusinessLine2 != "" {
			p.CellFormat(pageW-2*margin, 15, opts.BusinessLine2, "", 1, "C", false, 0, "")
		}
	}
}

func drawPageHeader(p *fpdf.Fpdf, address string) {
	setColor(p, brandPrimary)
	p.SetFont("Helvetica", "", headerSize)
	p.SetXY(margin, margin/2)
	p.CellFormat(0, 12, "Property Inspection: "+address, "", 0, "L", false, 0, "")
}

func drawPhoto(p *fpdf.Fpdf, item report.Item, top float64) error {
	encoded, err := imageproc.PDFJPEG(item.SourcePath)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("photo_%03d", item.Index)
	info := p.RegisterImageOptionsReader(name,
		fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(encoded))
	if p.Err() {
		return p.Error()
	}

	w, h := info.Width(), info.Height()
	scale := photoMaxW / w
	if s := photoMaxH / h; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	p.ImageOptions(name, margin, top, w*scale, h*scale, false,
		fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	if p.Err() {
		return p.Error()
	}
	return nil
}

// drawBadge flags the two actionable tiers under the photo column. Minor
// findings carry no badge.
func drawBadge(p *fpdf.Fpdf, item report.Item, photoTop float64) {
	var color rgb
	var label string
	switch item.Finding.Severity {
	case "critical":
		color, label = criticalRed, "CRITICAL"
	case "important":
		color, label = importantOrng, "IMPORTANT"
	default:
		return
	}

	y := photoTop + photoMaxH + 10
	_, pageH := p.GetPageSize()
	if y > pageH-margin-badgeSize {
		y = pageH - margin - badgeSize
	}
	setColor(p, color)
	p.SetFont("Helvetica", "B", badgeSize)
	p.SetXY(margin, y)
	p.CellFormat(photoMaxW, badgeSize+2, label, "", 0, "L", false, 0, "")
}

func drawNotes(p *fpdf.Fpdf, item report.Item, top float64, pageW float64) {
	noteW := pageW - noteX - margin

	// Confine the note column so wrapped lines and continuation pages keep
	// the same width; the photo never repeats on continuation pages.
	p.SetLeftMargin(noteX)
	p.SetRightMargin(margin)
	defer func() {
		p.SetLeftMargin(margin)
		p.SetRightMargin(margin)
	}()
	p.SetXY(noteX, top)

	writeSection := func(label string, entries []string) {
		if len(entries) == 0 {
			return
		}
		setColor(p, brandSecondary)
		p.SetFont("Helvetica", "B", 12.5)
		p.MultiCell(noteW, 17, label, "", "L", false)
		setColor(p, bodyGray)
		p.SetFont("Helvetica", "", 12)
		for _, entry := range entries {
			p.MultiCell(noteW, 16, "- "+entry, "", "L", false)
		}
		p.Ln(4)
	}

	if item.Finding.Location != "" {
		writeSection("Location:", []string{item.Finding.Location})
	}
	writeSection("Observations:", item.Finding.Observations)
	writeSection("Potential Issues:", item.Finding.PotentialIssues)
	writeSection("Recommendations:", item.Finding.Recommendations)
}

func setColor(p *fpdf.Fpdf, c rgb) {
	p.SetTextColor(c.r, c.g, c.b)
}
