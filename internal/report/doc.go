// Package report assembles per-photo findings into the one document every
// renderer consumes, and renders its JSON and run-summary forms.
//
// The document is the single source of truth: aggregate statistics are
// computed once, at assembly, and renderers only read them. The PDF and
// gallery renderers live in the pdf and web subpackages.
package report
