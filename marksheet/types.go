package marksheet

import (
	"encoding/json"
	"fmt"
)

// Pair is one document-level field as (label, value). It serializes as a
// two-element JSON array so the wire format keeps display order.
type Pair struct {
	Label string
	Value string
}

// MarshalJSON encodes the pair as ["label", "value"].
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Label, p.Value})
}

// UnmarshalJSON decodes ["label", "value"] back into the pair.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var arr [2]string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	p.Label, p.Value = arr[0], arr[1]
	return nil
}

// Summary holds the per-block summary fields. It is mutable only while its
// block is still collecting summary lines; once the table header is consumed
// the segmenter stops writing to it.
type Summary struct {
	Semester     string `json:"Semester"`
	EvenOdd      string `json:"Even/Odd"`
	TotalMarks   string `json:"Total Marks Obt."`
	ResultStatus string `json:"Result Status"`
	SGPA         string `json:"SGPA"`

	// totalSubjects is the declared subject count, kept out of the wire
	// format. It only feeds the soft consistency check in the report.
	totalSubjects string
}

// Row is one reconstructed subject table row. Missing optional columns are
// filled with "--". It serializes as a 7-element JSON array in header order.
type Row struct {
	Code      string
	Name      string
	Type      string
	Internal  string
	External  string
	BackPaper string
	Grade     string
}

// Columns returns the row in table header order.
func (r Row) Columns() [7]string {
	return [7]string{r.Code, r.Name, r.Type, r.Internal, r.External, r.BackPaper, r.Grade}
}

// MarshalJSON encodes the row as a 7-element array.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Columns())
}

// UnmarshalJSON decodes a 7-element array back into the row.
func (r *Row) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) != 7 {
		return fmt.Errorf("subject row: want 7 columns, got %d", len(arr))
	}
	r.Code, r.Name, r.Type, r.Internal, r.External, r.BackPaper, r.Grade =
		arr[0], arr[1], arr[2], arr[3], arr[4], arr[5], arr[6]
	return nil
}

// Block is one finalized marksheet block. Blocks with zero rows are never
// emitted.
type Block struct {
	Summary Summary  `json:"summary"`
	Header  []string `json:"header"`
	Rows    []Row    `json:"rows"`
}

// Result is the full extraction output.
type Result struct {
	GeneralInfo []Pair  `json:"general_info"`
	Blocks      []Block `json:"marksheet_blocks"`
}

// SkippedLine records text that matched no row grammar and was dropped.
type SkippedLine struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// CountCheck compares a block's declared subject count against the number of
// rows actually reconstructed. A mismatch is informational only.
type CountCheck struct {
	Semester string `json:"semester"`
	Declared int    `json:"declared"`
	Actual   int    `json:"actual"`
}

// Mismatch reports whether the declared and actual counts differ.
func (c CountCheck) Mismatch() bool { return c.Declared != c.Actual }

// Report collects diagnostics the best-effort parse would otherwise discard
// silently. The default output is unaffected; strict callers can inspect it.
type Report struct {
	Skipped     []SkippedLine `json:"skipped,omitempty"`
	CountChecks []CountCheck  `json:"count_checks,omitempty"`
}
