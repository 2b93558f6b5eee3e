package marksheet

import (
	"regexp"
	"strings"
)

// Canonical document-level field names scanned by the field extractor.
const (
	FieldInstitute    = "Institute Code & Name"
	FieldCourse       = "Course Code & Name"
	FieldBranch       = "Branch Code & Name"
	FieldRollNo       = "RollNo"
	FieldEnrollmentNo = "EnrollmentNo"
	FieldName         = "Name"
	FieldHindiName    = "Hindi Name"
	FieldFatherName   = "Father's Name"
	FieldGender       = "Gender"
	FieldSession      = "Session"
	FieldSemester     = "Semester"
	FieldEvenOdd      = "Even/Odd"
	FieldSGPA         = "SGPA"
	FieldTotalMarks   = "Total Marks Obt."
	FieldResultStatus = "Result Status"
)

// FieldPattern pairs a canonical field with its regex fallback. The pattern's
// first capture group is the field value.
type FieldPattern struct {
	Label   string
	Pattern *regexp.Regexp
}

// EmitRule controls one entry of the GeneralInfo output: which scanned field
// it reads, the label it is shown under, and whether it is emitted even when
// empty.
type EmitRule struct {
	Field  string
	Label  string
	Always bool
}

// Layout describes one transcript layout family: the table header line, the
// stop headings, the subject row grammar and the document-level field set.
// Passing a different Layout retargets the parser without code changes.
type Layout struct {
	// Header matches the fixed table column header line.
	Header *regexp.Regexp
	// ResultHeading matches the section heading that terminates row
	// collection ("Minor Result" / "Major Result").
	ResultHeading *regexp.Regexp
	// SemesterStart matches the line that opens a block; group 1 is the
	// semester number.
	SemesterStart *regexp.Regexp
	// CodeStart matches a line beginning with a subject code, used by the
	// row reconstructor's lookback heuristic.
	CodeStart *regexp.Regexp
	// Row is the anchored subject row grammar with 7 capture groups.
	Row *regexp.Regexp

	// HeaderColumns are the column names emitted with every block.
	HeaderColumns []string

	// Fields lists the canonical document-level fields in scan order.
	Fields []FieldPattern
	// Emit fixes the GeneralInfo output order.
	Emit []EmitRule

	// Per-block summary patterns.
	EvenOdd       *regexp.Regexp
	TotalMarks    *regexp.Regexp
	ResultStatus  *regexp.Regexp
	SGPA          *regexp.Regexp
	TotalSubjects *regexp.Regexp
}

// SubjectTypes is the default row grammar type vocabulary.
var SubjectTypes = []string{"Theory", "Practical", "CA", "Lab", "Project", "Workshop", "Training"}

// RowGrammar compiles the anchored subject row pattern for the given type
// vocabulary: code, name, type, internal, then optional external, back paper
// and grade columns.
func RowGrammar(types []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*` +
		`([A-Z]{3}\d{3})` + // code
		`\s+(.+?)` + // subject name, non-greedy
		`\s+(` + strings.Join(types, "|") + `)` + // type
		`\s+(\d+)` + // internal
		`(?:\s+(\d+|--))?` + // external, optional
		`(?:\s+(--|\d+))?` + // back paper, optional
		`(?:\s+([A-Za-z]{1,2}\+?))?` + // grade, optional
		`\s*$`)
}

// DefaultLayout returns the stock marksheet layout.
func DefaultLayout() Layout {
	return Layout{
		Header:        regexp.MustCompile(`(?i)^\s*Code\s+Name\s+Type\s+Internal\s+External\s+Back\s+Paper\s+Grade\s*$`),
		ResultHeading: regexp.MustCompile(`(?i)^(?:Minor|Major)\s*Result`),
		SemesterStart: regexp.MustCompile(`(?i)^\s*Semester\s*:\s*(\d+)`),
		CodeStart:     regexp.MustCompile(`(?i)^[A-Z]{3}\d{3}\b`),
		Row:           RowGrammar(SubjectTypes),

		HeaderColumns: []string{"Code", "Name", "Type", "Internal", "External", "Back Paper", "Grade"},

		Fields: []FieldPattern{
			{FieldInstitute, regexp.MustCompile(`(?i)Institute\s*Code\s*&\s*Name\s*:\s*(.+)`)},
			{FieldCourse, regexp.MustCompile(`(?i)Course\s*Code\s*&\s*Name\s*:\s*(.+)`)},
			{FieldBranch, regexp.MustCompile(`(?i)Branch\s*Code\s*&\s*Name\s*:\s*(.+)`)},
			{FieldRollNo, regexp.MustCompile(`(?i)Roll\s*No\s*:\s*(\d+)`)},
			{FieldEnrollmentNo, regexp.MustCompile(`(?i)Enrollment\s*No\s*:\s*(.+)`)},
			{FieldName, regexp.MustCompile(`(?i)Name\s*:\s*(.+?)(?:\s*Hindi\s*Name\s*:|$)`)},
			{FieldHindiName, regexp.MustCompile(`(?i)Hindi\s*Name\s*:\s*(.+)`)},
			{FieldFatherName, regexp.MustCompile(`(?i)Father's\s*Name\s*:\s*(.+)`)},
			{FieldGender, regexp.MustCompile(`(?i)Gender\s*:\s*([A-Za-z]+)`)},
			{FieldSession, regexp.MustCompile(`(?i)Session\s*:\s*(.+)`)},
			{FieldSemester, regexp.MustCompile(`(?i)Semester\s*:\s*(\d+)`)},
			{FieldEvenOdd, regexp.MustCompile(`(?i)Even\s*/\s*Odd\s*:\s*(Even|Odd)`)},
			{FieldSGPA, regexp.MustCompile(`(?i)SGPA\s*:\s*([0-9]+(?:\.[0-9]+)?)`)},
			{FieldTotalMarks, regexp.MustCompile(`(?i)Total\s*Marks\s*Obt\.?\s*:\s*([0-9]+)`)},
			{FieldResultStatus, regexp.MustCompile(`(?i)Result\s*Status\s*:\s*(.+)`)},
		},

		// Father's Name, Session and Result Status are scanned but not shown.
		// The marks and SGPA entries appear even when empty.
		Emit: []EmitRule{
			{Field: FieldInstitute, Label: FieldInstitute},
			{Field: FieldCourse, Label: FieldCourse},
			{Field: FieldBranch, Label: FieldBranch},
			{Field: FieldRollNo, Label: FieldRollNo},
			{Field: FieldEnrollmentNo, Label: FieldEnrollmentNo},
			{Field: FieldName, Label: FieldName},
			{Field: FieldHindiName, Label: FieldHindiName},
			{Field: FieldGender, Label: FieldGender},
			{Field: FieldSemester, Label: FieldSemester},
			{Field: FieldEvenOdd, Label: FieldEvenOdd},
			{Field: FieldTotalMarks, Label: "Total Marks Obt. :", Always: true},
			{Field: FieldSGPA, Label: "SGPA :", Always: true},
		},

		EvenOdd:       regexp.MustCompile(`(?i)Even\s*/\s*Odd\s*:\s*(Even|Odd)`),
		TotalMarks:    regexp.MustCompile(`(?i)Total\s*Marks\s*Obt\.?\s*:\s*([0-9]+)`),
		ResultStatus:  regexp.MustCompile(`(?i)Result\s*Status\s*:\s*(.+)`),
		SGPA:          regexp.MustCompile(`(?i)SGPA\s*:\s*([0-9]+(?:\.[0-9]+)?)`),
		TotalSubjects: regexp.MustCompile(`(?i)Total\s*Subjects\s*:\s*(\d+)`),
	}
}

func (l *Layout) defaults() {
	def := DefaultLayout()
	if l.Header == nil {
		l.Header = def.Header
	}
	if l.ResultHeading == nil {
		l.ResultHeading = def.ResultHeading
	}
	if l.SemesterStart == nil {
		l.SemesterStart = def.SemesterStart
	}
	if l.CodeStart == nil {
		l.CodeStart = def.CodeStart
	}
	if l.Row == nil {
		l.Row = def.Row
	}
	if l.HeaderColumns == nil {
		l.HeaderColumns = def.HeaderColumns
	}
	if l.Fields == nil {
		l.Fields = def.Fields
	}
	if l.Emit == nil {
		l.Emit = def.Emit
	}
	if l.EvenOdd == nil {
		l.EvenOdd = def.EvenOdd
	}
	if l.TotalMarks == nil {
		l.TotalMarks = def.TotalMarks
	}
	if l.ResultStatus == nil {
		l.ResultStatus = def.ResultStatus
	}
	if l.SGPA == nil {
		l.SGPA = def.SGPA
	}
	if l.TotalSubjects == nil {
		l.TotalSubjects = def.TotalSubjects
	}
}
