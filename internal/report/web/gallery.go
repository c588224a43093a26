// Package web produces the report's browser-viewable gallery.
//
// The preferred path copies an installed, versioned template into the run's
// web directory with the report id substituted, keeping visual design out
// of the pipeline. When no template is installed, a self-contained fallback
// page is synthesized from the document itself. Both results render offline
// with nothing beyond same-directory asset fetches.
package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fieldlens/internal/logging"
	"fieldlens/internal/report"
)

// reportIDToken is the placeholder an installed gallery template carries
// where the report id belongs.
const reportIDToken = "{{REPORT_ID}}"

// Options selects the installed template, when one exists.
type Options struct {
	TemplateDir  string
	TemplateName string
	Logger       *slog.Logger
}

// Render writes index.html into webDir. The installed template wins when
// readable; otherwise the fallback page is synthesized.
func Render(doc *report.Document, webDir string, opts Options) error {
	logger := logging.WithComponent(opts.Logger, "gallery")
	outPath := filepath.Join(webDir, "index.html")

	if opts.TemplateDir != "" && opts.TemplateName != "" {
		templatePath := filepath.Join(opts.TemplateDir, opts.TemplateName)
		content, err := os.ReadFile(templatePath)
		if err == nil {
			page := strings.ReplaceAll(string(content), reportIDToken, doc.ReportID)
			if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
				return fmt.Errorf("write gallery from template: %w", err)
			}
			return nil
		}
		logger.Debug("gallery template not installed, using fallback page",
			"template", templatePath)
	}

	return renderFallback(doc, outPath)
}

func renderFallback(doc *report.Document, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create gallery page: %w", err)
	}
	defer out.Close()

	if err := fallbackPage.Execute(out, doc); err != nil {
		return fmt.Errorf("render gallery page: %w", err)
	}
	return out.Close()
}

var fallbackPage = template.Must(template.New("gallery").Funcs(template.FuncMap{
	"severityClass": func(s any) string { return fmt.Sprintf("sev-%v", s) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Inspection Report - {{.PropertyAddress}}</title>
<style>
  :root { --brand: #0b1e2e; --brand2: #113a5c; }
  body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
         margin: 0; background: #f4f6f8; color: #2b2b2b; }
  header { background: var(--brand); color: #fff; padding: 24px 32px; }
  header h1 { margin: 0 0 4px; font-size: 1.5rem; }
  header p { margin: 2px 0; opacity: .85; }
  .stats { display: flex; gap: 16px; padding: 16px 32px; }
  .stat { background: #fff; border-radius: 8px; padding: 12px 20px;
          box-shadow: 0 1px 3px rgba(0,0,0,.1); }
  .stat b { display: block; font-size: 1.4rem; }
  .cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(340px, 1fr));
           gap: 20px; padding: 16px 32px 48px; }
  .card { background: #fff; border-radius: 8px; overflow: hidden;
          box-shadow: 0 1px 3px rgba(0,0,0,.1); border-top: 4px solid #9aa5ad; }
  .card.sev-critical { border-top-color: #cc0000; }
  .card.sev-important { border-top-color: #ff6600; }
  .card img { width: 100%; height: 220px; object-fit: cover; display: block; }
  .card .body { padding: 14px 16px 18px; }
  .card h2 { margin: 0 0 6px; font-size: 1.05rem; color: var(--brand); }
  .badge { display: inline-block; font-size: .72rem; font-weight: 700;
           letter-spacing: .05em; padding: 2px 8px; border-radius: 10px;
           color: #fff; text-transform: uppercase; }
  .badge.sev-critical { background: #cc0000; }
  .badge.sev-important { background: #ff6600; }
  .badge.sev-minor { background: #9aa5ad; }
  h3 { margin: 10px 0 3px; font-size: .85rem; color: var(--brand2);
       text-transform: uppercase; letter-spacing: .04em; }
  ul { margin: 0; padding-left: 18px; }
  li { margin: 2px 0; font-size: .9rem; }
</style>
</head>
<body>
<header>
  <h1>Property Inspection Report</h1>
  <p>{{.PropertyAddress}}</p>
  {{if .ClientName}}<p>Prepared for {{.ClientName}}</p>{{end}}
  <p>Inspected {{.InspectionDate}} &middot; Report {{.ReportID}}</p>
</header>
<div class="stats">
  <div class="stat"><b>{{.Statistics.TotalPhotos}}</b>photos</div>
  <div class="stat"><b>{{.Statistics.CriticalCount}}</b>critical</div>
  <div class="stat"><b>{{.Statistics.ImportantCount}}</b>important</div>
  <div class="stat"><b>{{.Statistics.MinorCount}}</b>minor</div>
</div>
<div class="cards">
{{range .Items}}  <div class="card {{severityClass .Finding.Severity}}">
    <img src="{{.WebPhoto}}" alt="{{.Filename}}">
    <div class="body">
      <h2>Photo {{.Index}}: {{.Filename}}</h2>
      <span class="badge {{severityClass .Finding.Severity}}">{{.Finding.Severity}}</span>
      {{if .Finding.Location}}<h3>Location</h3><p>{{.Finding.Location}}</p>{{end}}
      {{if .Finding.Observations}}<h3>Observations</h3>
      <ul>{{range .Finding.Observations}}<li>{{.}}</li>{{end}}</ul>{{end}}
      {{if .Finding.PotentialIssues}}<h3>Potential Issues</h3>
      <ul>{{range .Finding.PotentialIssues}}<li>{{.}}</li>{{end}}</ul>{{end}}
      {{if .Finding.Recommendations}}<h3>Recommendations</h3>
      <ul>{{range .Finding.Recommendations}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
  </div>
{{end}}</div>
</body>
</html>
`))
