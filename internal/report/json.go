package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"fieldlens/internal/finding"
)

// jsonDocument is the canonical machine-consumable form of a Document. It
// must stay loadable standalone, without the PDF or gallery next to it.
type jsonDocument struct {
	ReportID        string         `json:"report_id"`
	ClientName      string         `json:"client_name"`
	PropertyAddress string         `json:"property_address"`
	InspectionDate  string         `json:"inspection_date"`
	GeneratedAt     string         `json:"generated_at"`
	Items           []jsonItem     `json:"items"`
	Statistics      Statistics     `json:"statistics"`
	Categories      jsonCategories `json:"categories"`
}

type jsonItem struct {
	Index           int      `json:"index"`
	Filename        string   `json:"filename"`
	WebPhoto        string   `json:"web_photo"`
	Location        string   `json:"location"`
	Observations    []string `json:"observations"`
	PotentialIssues []string `json:"potential_issues"`
	Recommendations []string `json:"recommendations"`
	Severity        string   `json:"severity"`
}

// jsonCategories are derived secondary indices over item indexes. Severity
// stays the authoritative triage signal; by_type is best-effort tagging.
type jsonCategories struct {
	ByLocation map[string][]int `json:"by_location"`
	BySeverity map[string][]int `json:"by_severity"`
	ByType     map[string][]int `json:"by_type"`
}

// typeTags maps domain keywords found in observation and issue text to a
// type category label.
var typeTags = []struct {
	keywords []string
	label    string
}{
	{keywords: []string{"water", "leak", "moisture"}, label: "Water/Moisture"},
	{keywords: []string{"electrical", "wiring", "outlet"}, label: "Electrical"},
	{keywords: []string{"structural", "foundation", "framing"}, label: "Structural"},
	{keywords: []string{"roof", "shingle", "gutter"}, label: "Roofing"},
}

// EncodeJSON renders the document as indented canonical JSON.
func EncodeJSON(doc *Document) ([]byte, error) {
	out := jsonDocument{
		ReportID:        doc.ReportID,
		ClientName:      doc.ClientName,
		PropertyAddress: doc.PropertyAddress,
		InspectionDate:  doc.InspectionDate,
		GeneratedAt:     doc.GeneratedAt.Format(time.RFC3339),
		Items:           make([]jsonItem, 0, len(doc.Items)),
		Statistics:      doc.Statistics,
		Categories: jsonCategories{
			ByLocation: map[string][]int{},
			BySeverity: map[string][]int{},
			ByType:     map[string][]int{},
		},
	}

	for _, item := range doc.Items {
		out.Items = append(out.Items, jsonItem{
			Index:           item.Index,
			Filename:        item.Filename,
			WebPhoto:        item.WebPhoto,
			Location:        item.Finding.Location,
			Observations:    nonNil(item.Finding.Observations),
			PotentialIssues: nonNil(item.Finding.PotentialIssues),
			Recommendations: nonNil(item.Finding.Recommendations),
			Severity:        string(item.Finding.Severity),
		})

		if location := strings.TrimSpace(item.Finding.Location); location != "" {
			out.Categories.ByLocation[location] = append(out.Categories.ByLocation[location], item.Index)
		}
		severity := string(item.Finding.Severity)
		out.Categories.BySeverity[severity] = append(out.Categories.BySeverity[severity], item.Index)
		for _, label := range itemTypeLabels(item) {
			out.Categories.ByType[label] = append(out.Categories.ByType[label], item.Index)
		}
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report json: %w", err)
	}
	return encoded, nil
}

// WriteJSON renders the document and writes it to path.
func WriteJSON(doc *Document, path string) error {
	encoded, err := EncodeJSON(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	return nil
}

// ReadJSON loads a previously written report back into a Document. The
// derived category indices are not restored; they are recomputed on the
// next encode.
func ReadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report json: %w", err)
	}
	var in jsonDocument
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse report json: %w", err)
	}

	items := make([]Item, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, Item{
			Index:    item.Index,
			Filename: item.Filename,
			WebPhoto: item.WebPhoto,
			Finding: finding.Finding{
				Location:        item.Location,
				Observations:    item.Observations,
				PotentialIssues: item.PotentialIssues,
				Recommendations: item.Recommendations,
				Severity:        finding.Severity(item.Severity),
			},
		})
	}

	doc := Assemble(Meta{
		ReportID:        in.ReportID,
		ClientName:      in.ClientName,
		PropertyAddress: in.PropertyAddress,
		InspectionDate:  in.InspectionDate,
	}, items)
	if ts, err := time.Parse(time.RFC3339, in.GeneratedAt); err == nil {
		doc.GeneratedAt = ts
	}
	return doc, nil
}

func itemTypeLabels(item Item) []string {
	var text strings.Builder
	for _, entry := range item.Finding.Observations {
		text.WriteString(strings.ToLower(entry))
		text.WriteByte(' ')
	}
	for _, entry := range item.Finding.PotentialIssues {
		text.WriteString(strings.ToLower(entry))
		text.WriteByte(' ')
	}
	joined := text.String()

	var labels []string
	for _, tag := range typeTags {
		for _, keyword := range tag.keywords {
			if strings.Contains(joined, keyword) {
				labels = append(labels, tag.label)
				break
			}
		}
	}
	return labels
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
