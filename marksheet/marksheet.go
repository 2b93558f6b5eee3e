// Package marksheet parses the semi-structured text of university marksheet
// PDFs into typed transcript records.
//
// The input is the per-page plain text a PDF text extractor produces: noisy,
// inconsistently wrapped, with repeated table headers at page breaks. The
// parser locates repeating marksheet blocks (a "Semester :" summary followed
// by a fixed column header and subject rows), reconstructs rows whose names
// wrapped across physical lines, and extracts the document-level identity
// fields. Unmatchable text is skipped, never raised: partial extraction beats
// total failure on real transcripts.
//
// The layout family is injected via Layout, so a different header line or
// type vocabulary needs no code change:
//
//	x := marksheet.New(marksheet.DefaultLayout())
//	result, report := x.Extract(pages)
//
// Extract is a pure function of its input — no I/O, no shared state — and is
// safe to call from concurrent requests.
package marksheet

import "strings"

// Extractor parses marksheet text for one layout family.
type Extractor struct {
	layout Layout
}

// New creates an Extractor. Zero-value Layout fields fall back to the
// defaults, so New(Layout{}) behaves like New(DefaultLayout()).
func New(layout Layout) *Extractor {
	layout.defaults()
	return &Extractor{layout: layout}
}

// Extract parses the ordered per-page texts into an extraction result plus a
// diagnostics report. The result alone is the wire-format output; the report
// carries what the best-effort parse silently dropped.
func (x *Extractor) Extract(pages []string) (*Result, *Report) {
	var all []string
	for _, page := range pages {
		all = append(all, strings.Split(page, "\n")...)
	}
	fullText := strings.Join(all, "\n")

	res := &Result{
		GeneralInfo: x.generalInfo(all, fullText),
		Blocks:      []Block{},
	}
	rep := &Report{}

	for n, page := range pages {
		x.segmentPage(n+1, strings.Split(page, "\n"), res, rep)
	}
	return res, rep
}
