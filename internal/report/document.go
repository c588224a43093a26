package report

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldlens/internal/finding"
)

// Item pairs one photo with its finding inside the assembled document.
type Item struct {
	// Index is the photo's 1-based sequence position from the input set.
	Index int
	// Filename is the photo's original name.
	Filename string
	// SourcePath is the absolute location of the readable original, used
	// by renderers that re-encode the photo.
	SourcePath string
	// WebPhoto is the gallery copy's path relative to the web directory,
	// e.g. "photos/photo_001.jpg".
	WebPhoto string
	Finding  finding.Finding
}

// Statistics aggregates severity counts over a document's items.
type Statistics struct {
	TotalPhotos    int `json:"total_photos"`
	CriticalCount  int `json:"critical_count"`
	ImportantCount int `json:"important_count"`
	MinorCount     int `json:"minor_count"`
}

// Meta carries the run metadata stamped onto the document.
type Meta struct {
	ReportID        string
	ClientName      string
	PropertyAddress string
	// InspectionDate is already formatted for display ("January 2, 2006").
	InspectionDate string
}

// Document is the full report: metadata, ordered items, and aggregate
// statistics. It is immutable after Assemble returns.
type Document struct {
	ReportID        string
	ClientName      string
	PropertyAddress string
	InspectionDate  string
	GeneratedAt     time.Time
	Items           []Item
	Statistics      Statistics
}

// NewReportID mints the opaque run identifier.
func NewReportID() string {
	return uuid.NewString()
}

// Assemble builds the document from ordered items, computing statistics by
// iterating the findings. Renderers never recount; they read these numbers.
func Assemble(meta Meta, items []Item) *Document {
	stats := Statistics{TotalPhotos: len(items)}
	for _, item := range items {
		switch item.Finding.Severity {
		case finding.SeverityCritical:
			stats.CriticalCount++
		case finding.SeverityImportant:
			stats.ImportantCount++
		default:
			stats.MinorCount++
		}
	}

	return &Document{
		ReportID:        meta.ReportID,
		ClientName:      meta.ClientName,
		PropertyAddress: meta.PropertyAddress,
		InspectionDate:  meta.InspectionDate,
		GeneratedAt:     time.Now().UTC(),
		Items:           items,
		Statistics:      stats,
	}
}

// ItemByFilename looks up an item by its original photo name, trying an
// exact match first and a case-insensitive match second. A miss returns
// ok=false; there is no fallback to an arbitrary item.
func (d *Document) ItemByFilename(name string) (Item, bool) {
	for _, item := range d.Items {
		if item.Filename == name {
			return item, true
		}
	}
	for _, item := range d.Items {
		if strings.EqualFold(item.Filename, name) {
			return item, true
		}
	}
	return Item{}, false
}
