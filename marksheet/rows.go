package marksheet

import (
	"regexp"
	"strings"
	"unicode"
)

var spaceRuns = regexp.MustCompile(`\s+`)

// rowBuilder reconstructs logical subject rows from the physical lines
// between a table header and the block's stop condition. PDF extraction
// wraps long subject names across lines, so the builder keeps a single-line
// lookback buffer and only emits once the grammar matches.
type rowBuilder struct {
	layout *Layout
	rows   []Row
	buf    string
	// dropped collects text that never matched under any buffering
	// strategy; the parse stays best-effort, but the caller can report it.
	dropped []string
}

func newRowBuilder(layout *Layout) *rowBuilder {
	return &rowBuilder{layout: layout}
}

// feed consumes one trimmed line from the collection window.
func (b *rowBuilder) feed(line string) {
	// Blank lines arise from wrapped subject names; a repeated header line
	// shows up at page breaks. Neither carries row content.
	if line == "" {
		return
	}
	if b.layout.Header.MatchString(line) {
		return
	}

	// Wrap artifacts split rows mid-word ("Data Struct" / "ures Theory …"),
	// so buffer and line are joined without an extra space.
	combined := b.buf + line
	if row, ok := parseRow(b.layout, combined); ok {
		b.rows = append(b.rows, row)
		b.buf = ""
		return
	}

	// The combination failed but the raw line itself opens with a subject
	// code: the buffer may already be a complete row whose successor just
	// arrived. Emit it and restart the buffer on the new line.
	if b.buf != "" && b.layout.CodeStart.MatchString(line) {
		if row, ok := parseRow(b.layout, b.buf); ok {
			b.rows = append(b.rows, row)
			b.buf = line
			return
		}
	}

	b.buf = combined
}

// flush makes a final grammar attempt on any pending buffer and returns the
// reconstructed rows. Unmatchable leftovers are recorded, not raised.
func (b *rowBuilder) flush() []Row {
	if b.buf != "" {
		if row, ok := parseRow(b.layout, b.buf); ok {
			b.rows = append(b.rows, row)
		} else {
			b.dropped = append(b.dropped, b.buf)
		}
		b.buf = ""
	}
	return b.rows
}

// parseRow applies the row grammar to whitespace-normalized text. Missing
// optional columns default to "--".
func parseRow(layout *Layout, raw string) (Row, bool) {
	txt := spaceRuns.ReplaceAllString(strings.TrimSpace(raw), " ")
	m := layout.Row.FindStringSubmatch(txt)
	if m == nil {
		return Row{}, false
	}
	row := Row{
		Code:      m[1],
		Name:      strings.TrimSpace(m[2]),
		Type:      capitalize(m[3]),
		Internal:  m[4],
		External:  m[5],
		BackPaper: m[6],
		Grade:     m[7],
	}
	if row.External == "" {
		row.External = "--"
	}
	if row.BackPaper == "" {
		row.BackPaper = "--"
	}
	if row.Grade == "" {
		row.Grade = "--"
	}
	return row, true
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// how type names are normalized on output.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
