package marksheet

import (
	"strconv"
	"strings"
)

// scanState is the block segmenter's position in the line stream.
type scanState int

const (
	// stateScanning is outside any block, looking for a Semester line.
	stateScanning scanState = iota
	// stateSummary is inside a block, before the table header.
	stateSummary
	// stateRows is inside a block's subject table.
	stateRows
)

// segmentPage runs the segmenter over one page's lines and appends finalized
// blocks to res. State never carries across pages: an open block at the page
// boundary is finalized (rows) or abandoned (summary only).
func (x *Extractor) segmentPage(page int, lines []string, res *Result, rep *Report) {
	state := stateScanning
	var summary Summary
	var builder *rowBuilder

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		switch state {
		case stateScanning:
			if m := x.layout.SemesterStart.FindStringSubmatch(line); m != nil {
				summary = Summary{Semester: m[1]}
				state = stateSummary
			}
			i++

		case stateSummary:
			if m := x.layout.SemesterStart.FindStringSubmatch(line); m != nil {
				// A new block opened before this one ever produced a
				// table: the incomplete summary is discarded.
				summary = Summary{Semester: m[1]}
				i++
				continue
			}
			if x.layout.Header.MatchString(line) {
				builder = newRowBuilder(&x.layout)
				state = stateRows
				i++
				continue
			}
			x.captureSummary(&summary, line)
			i++

		case stateRows:
			if x.layout.SemesterStart.MatchString(line) || x.layout.ResultHeading.MatchString(line) {
				// Structural stop marker. Finalize and hand the line back
				// to the scanner unconsumed so the next block can chain
				// directly.
				x.finalizeBlock(page, summary, builder, res, rep)
				state = stateScanning
				continue
			}
			builder.feed(line)
			i++
		}
	}

	if state == stateRows {
		x.finalizeBlock(page, summary, builder, res, rep)
	}
}

// captureSummary populates summary fields from one line. The first match per
// field wins; later lines never overwrite.
func (x *Extractor) captureSummary(s *Summary, line string) {
	if s.EvenOdd == "" {
		if m := x.layout.EvenOdd.FindStringSubmatch(line); m != nil {
			s.EvenOdd = m[1]
		}
	}
	if s.TotalMarks == "" {
		if m := x.layout.TotalMarks.FindStringSubmatch(line); m != nil {
			s.TotalMarks = m[1]
		}
	}
	if s.ResultStatus == "" {
		if m := x.layout.ResultStatus.FindStringSubmatch(line); m != nil {
			s.ResultStatus = strings.TrimSpace(m[1])
		}
	}
	if s.SGPA == "" {
		if m := x.layout.SGPA.FindStringSubmatch(line); m != nil {
			s.SGPA = m[1]
		}
	}
	if s.totalSubjects == "" {
		if m := x.layout.TotalSubjects.FindStringSubmatch(line); m != nil {
			s.totalSubjects = m[1]
		}
	}
}

// finalizeBlock flushes the row builder and emits the block. Blocks with no
// reconstructed rows are discarded — a semester heading followed by an empty
// or unparsable table never reaches the output.
func (x *Extractor) finalizeBlock(page int, summary Summary, builder *rowBuilder, res *Result, rep *Report) {
	rows := builder.flush()
	for _, d := range builder.dropped {
		rep.Skipped = append(rep.Skipped, SkippedLine{Page: page, Text: d})
	}
	if len(rows) == 0 {
		return
	}
	if n, err := strconv.Atoi(summary.totalSubjects); err == nil {
		rep.CountChecks = append(rep.CountChecks, CountCheck{
			Semester: summary.Semester,
			Declared: n,
			Actual:   len(rows),
		})
	}
	res.Blocks = append(res.Blocks, Block{
		Summary: summary,
		Header:  append([]string(nil), x.layout.HeaderColumns...),
		Rows:    rows,
	})
}
