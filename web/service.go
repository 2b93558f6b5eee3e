// Package web is the HTTP and MCP surface around the marksheet extraction
// core. Every route is a pass-through caller: decode the upload, run the
// pdftext adapter and the marksheet parser, encode the result.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gradewise/marksight/marksheet"
	"github.com/gradewise/marksight/observability"
	"github.com/gradewise/marksight/pdftext"
	"github.com/gradewise/marksight/shield"
)

// Service wires the text source adapter and the parser behind the routes.
type Service struct {
	cfg    *Config
	logger *slog.Logger
	source *pdftext.Source
	parser *marksheet.Extractor
	events *observability.EventLogger
}

// Option configures a Service.
type Option func(*Service)

// WithEvents attaches the extraction event log.
func WithEvents(l *observability.EventLogger) Option {
	return func(s *Service) { s.events = l }
}

// WithLayout overrides the default marksheet layout.
func WithLayout(layout marksheet.Layout) Option {
	return func(s *Service) { s.parser = marksheet.New(layout) }
}

// New creates the service.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		cfg:    cfg,
		logger: logger,
		source: pdftext.New(pdftext.Config{MaxBytes: cfg.MaxFileBytes(), Logger: logger}),
		parser: marksheet.New(marksheet.DefaultLayout()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns the service router.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract_stream", s.handleExtractStream)
		r.Post("/extract", s.handleExtract)
		r.Post("/upload_pdfs", s.handleUploadPDFs)
		r.Get("/list_pdfs", s.handleListPDFs)
		r.Post("/delete_pdf", s.handleDeletePDF)
		r.Post("/delete_all", s.handleDeleteAll)
	})

	return r
}

// extract runs the full pipeline over in-memory PDF bytes and records the
// outcome in the event log.
func (s *Service) extract(ctx context.Context, data []byte, source, filename string) (*marksheet.Result, *marksheet.Report, error) {
	start := time.Now()

	pages, err := s.source.PagesFromBytes(ctx, data)
	if err != nil {
		s.recordEvent(ctx, observability.ExtractionEvent{
			TraceID:   shield.GetTraceID(ctx),
			Source:    source,
			Filename:  filename,
			SizeBytes: int64(len(data)),
			Duration:  time.Since(start),
			Error:     err.Error(),
		})
		return nil, nil, fmt.Errorf("extract text: %w", err)
	}

	res, rep := s.parser.Extract(pages)

	rows := 0
	for _, b := range res.Blocks {
		rows += len(b.Rows)
	}
	s.recordEvent(ctx, observability.ExtractionEvent{
		TraceID:      shield.GetTraceID(ctx),
		Source:       source,
		Filename:     filename,
		SizeBytes:    int64(len(data)),
		Pages:        len(pages),
		Blocks:       len(res.Blocks),
		Rows:         rows,
		SkippedLines: len(rep.Skipped),
		Duration:     time.Since(start),
		Success:      true,
	})

	for _, c := range rep.CountChecks {
		if c.Mismatch() {
			shield.GetLogger(ctx).Warn("subject count mismatch",
				"semester", c.Semester, "declared", c.Declared, "actual", c.Actual)
		}
	}

	return res, rep, nil
}

func (s *Service) recordEvent(ctx context.Context, ev observability.ExtractionEvent) {
	if s.events != nil {
		s.events.Record(ctx, ev)
	}
}

// isAllowedFile reports whether the upload filename has a .pdf extension.
func isAllowedFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// validateFilename rejects names that could escape the uploads directory.
func validateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename is required")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid filename")
	}
	if !isAllowedFile(name) {
		return fmt.Errorf("only PDF files are allowed")
	}
	return nil
}
