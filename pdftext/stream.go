package pdftext

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// literalString matches PDF string literals in parentheses.
var literalString = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// textFromContent scans a page content stream for text-showing operators and
// reassembles the page as lines. Vertical positioning (Td/TD with a non-zero
// y move, Tm, T*, ') starts a new line; horizontal moves become a column gap.
func textFromContent(data []byte) string {
	var sb strings.Builder

	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range literalString.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeString(m[1]))
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			// ' shows text on the next line.
			for _, m := range literalString.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodeString(m[1]))
			}

		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if verticalMove(line, 2) {
				sb.WriteByte('\n')
			} else if sb.Len() > 0 {
				sb.WriteByte(' ')
			}

		case bytes.HasSuffix(line, []byte("Tm")):
			// A fresh text matrix usually begins a new line of output.
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		}
	}

	return tidy(sb.String())
}

// verticalMove reports whether an operator line with nOperands trailing
// numbers before the operator has a non-zero y component.
func verticalMove(line []byte, nOperands int) bool {
	fields := bytes.Fields(line)
	if len(fields) < nOperands+1 {
		return false
	}
	y, err := strconv.ParseFloat(string(fields[len(fields)-2]), 64)
	if err != nil {
		return false
	}
	return y != 0
}

// decodeString resolves PDF literal string escapes, including octal codes.
func decodeString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// tidy trims each extracted line and squeezes runs of blank lines down to
// one, keeping single blanks (wrapped subject names rely on them).
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
