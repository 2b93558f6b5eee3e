// Package observability records extraction runs into an SQLite event log.
//
// Writes are non-blocking by policy: a failing event store is logged via
// slog and never propagates, so observability can never fail a request.
package observability

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ExtractionEvent describes one completed (or failed) extraction run.
type ExtractionEvent struct {
	TraceID      string
	Source       string // "stream", "file", "mcp"
	Filename     string
	SizeBytes    int64
	Pages        int
	Blocks       int
	Rows         int
	SkippedLines int
	Duration     time.Duration
	Success      bool
	Error        string
}

// EventLogger writes extraction events.
type EventLogger struct {
	db *sql.DB
}

// NewEventLogger creates a logger backed by the given database. The schema
// must already be applied (see Schema).
func NewEventLogger(db *sql.DB) *EventLogger {
	return &EventLogger{db: db}
}

// Record persists one extraction event. Errors are logged, not returned.
func (l *EventLogger) Record(ctx context.Context, ev ExtractionEvent) {
	if l == nil || l.db == nil {
		return
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO extraction_events (
			event_id, trace_id, source, filename, size_bytes,
			pages, blocks, rows_total, skipped_lines, duration_ms,
			success, error, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		"evt_"+uuid.NewString(), ev.TraceID, ev.Source, ev.Filename, ev.SizeBytes,
		ev.Pages, ev.Blocks, ev.Rows, ev.SkippedLines, ev.Duration.Milliseconds(),
		ev.Success, ev.Error, time.Now().Unix())
	if err != nil {
		slog.Error("extraction event log failed", "error", err, "source", ev.Source)
	}
}

// Cleanup deletes events older than the retention window. Zero or negative
// days disables cleanup.
func Cleanup(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	_, err := db.ExecContext(ctx,
		`DELETE FROM extraction_events WHERE created_at < ?`, cutoff)
	return err
}
