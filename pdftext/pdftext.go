// Package pdftext turns a PDF byte stream into ordered per-page plain text.
//
// It is the text source for the marksheet parser: pdfcpu reads and validates
// the document, and the page content streams are scanned for text-showing
// operators. Unlike generic extractors that flatten a page into one blob,
// the scanner preserves line structure (vertical text moves start new lines)
// because downstream parsing is line-oriented.
//
// Extraction is best-effort per page; a page whose content stream cannot be
// read yields an empty string. A PDF that pdfcpu rejects, or that contains
// no text at all, fails with a single error.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Config configures a Source.
type Config struct {
	// MaxBytes is the largest accepted input (default: 25 MB).
	MaxBytes int64

	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxBytes <= 0 {
		c.MaxBytes = 25 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Source extracts per-page text from PDF documents.
type Source struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Source with the given configuration.
func New(cfg Config) *Source {
	cfg.defaults()
	return &Source{cfg: cfg, logger: cfg.Logger}
}

// Pages reads a PDF and returns one plain-text string per page, in page
// order. Pages without extractable text are returned as empty strings so
// page numbering stays stable.
func (s *Source) Pages(ctx context.Context, rs io.ReadSeeker) ([]string, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("pdftext: seek: %w", err)
	}
	if size > s.cfg.MaxBytes {
		return nil, fmt.Errorf("pdftext: input too large: %d bytes (max %d)", size, s.cfg.MaxBytes)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("pdftext: seek: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdftext: read pdf: %w", err)
	}

	pages := make([]string, 0, pdfCtx.PageCount)
	total := 0
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := pageText(pdfCtx, pageNr)
		total += len(text)
		pages = append(pages, text)
	}
	if total == 0 {
		return nil, fmt.Errorf("pdftext: no text content found in PDF")
	}

	s.logger.Debug("pdf text extracted", "pages", pdfCtx.PageCount, "chars", total)
	return pages, nil
}

// PagesFromBytes is Pages over an in-memory document.
func (s *Source) PagesFromBytes(ctx context.Context, data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("pdftext: empty input")
	}
	return s.Pages(ctx, bytes.NewReader(data))
}

// pageText extracts text from one page's content stream. Failures are
// swallowed: a single undecodable page must not sink the document.
func pageText(pdfCtx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromContent(data)
}
