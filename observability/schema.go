package observability

// Schema creates the extraction event table. Idempotent; pass it to
// dbopen.WithSchema or execute it once at startup.
const Schema = `
CREATE TABLE IF NOT EXISTS extraction_events (
	event_id      TEXT PRIMARY KEY,
	trace_id      TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL,
	filename      TEXT NOT NULL DEFAULT '',
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	pages         INTEGER NOT NULL DEFAULT 0,
	blocks        INTEGER NOT NULL DEFAULT 0,
	rows_total    INTEGER NOT NULL DEFAULT 0,
	skipped_lines INTEGER NOT NULL DEFAULT 0,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL DEFAULT 0,
	error         TEXT NOT NULL DEFAULT '',
	created_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_extraction_events_created
	ON extraction_events (created_at);
`
