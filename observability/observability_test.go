package observability

import (
	"context"
	"testing"
	"time"

	"github.com/gradewise/marksight/dbopen"
	_ "modernc.org/sqlite"
)

func TestRecordAndCleanup(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	log := NewEventLogger(db)

	log.Record(context.Background(), ExtractionEvent{
		TraceID:   "abcd1234",
		Source:    "stream",
		Filename:  "marksheet.pdf",
		SizeBytes: 2048,
		Pages:     2,
		Blocks:    3,
		Rows:      14,
		Duration:  42 * time.Millisecond,
		Success:   true,
	})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM extraction_events`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	var source string
	var success bool
	err := db.QueryRow(`SELECT source, success FROM extraction_events`).Scan(&source, &success)
	if err != nil {
		t.Fatal(err)
	}
	if source != "stream" || !success {
		t.Errorf("source=%q success=%v", source, success)
	}

	// Events inside the retention window survive cleanup.
	if err := Cleanup(context.Background(), db, 7); err != nil {
		t.Fatal(err)
	}
	db.QueryRow(`SELECT COUNT(*) FROM extraction_events`).Scan(&count)
	if count != 1 {
		t.Fatalf("count after cleanup = %d, want 1", count)
	}

	// Backdate and clean again.
	if _, err := db.Exec(`UPDATE extraction_events SET created_at = created_at - 864000`); err != nil {
		t.Fatal(err)
	}
	if err := Cleanup(context.Background(), db, 7); err != nil {
		t.Fatal(err)
	}
	db.QueryRow(`SELECT COUNT(*) FROM extraction_events`).Scan(&count)
	if count != 0 {
		t.Fatalf("count after backdated cleanup = %d, want 0", count)
	}
}

func TestRecordNilLogger(t *testing.T) {
	// A nil logger is a no-op, so callers can leave observability unset.
	var l *EventLogger
	l.Record(context.Background(), ExtractionEvent{Source: "stream"})
}
