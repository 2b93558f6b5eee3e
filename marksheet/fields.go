package marksheet

import "strings"

// generalInfo scans every line (and the concatenated text) for the layout's
// document-level fields and returns them in the layout's emission order.
//
// Pass 1 splits label:value lines on the first colon and assigns by
// case-insensitive label prefix, first occurrence wins. Pass 2 runs each
// field's regex against the full text for fields still unset or empty —
// wrapped labels and values that leaked onto neighbouring lines are only
// recoverable from the blob.
func (x *Extractor) generalInfo(lines []string, fullText string) []Pair {
	found := make(map[string]string)

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, ":") {
			continue
		}
		left, right, _ := strings.Cut(line, ":")
		key := strings.ToLower(strings.TrimSpace(left))
		value := strings.TrimSpace(right)
		for _, f := range x.layout.Fields {
			if _, ok := found[f.Label]; ok {
				continue
			}
			if strings.HasPrefix(key, strings.ToLower(f.Label)) {
				found[f.Label] = value
				break
			}
		}
	}

	for _, f := range x.layout.Fields {
		if found[f.Label] != "" {
			continue
		}
		if m := f.Pattern.FindStringSubmatch(fullText); m != nil {
			found[f.Label] = strings.TrimSpace(m[1])
		}
	}

	// RollNo keeps only its leading digit run; trailing text on the same
	// physical line is noise from the PDF extraction.
	if v, ok := found[FieldRollNo]; ok {
		found[FieldRollNo] = leadingDigits(v)
	}

	// When the Hindi name leaked onto the captured Name line, cut at the
	// word "Hindi" and drop a dangling label colon.
	if v := found[FieldName]; strings.Contains(v, "Hindi") {
		v = v[:strings.Index(v, "Hindi")]
		found[FieldName] = strings.TrimRight(strings.TrimSpace(v), ":")
	}

	info := make([]Pair, 0, len(x.layout.Emit))
	for _, rule := range x.layout.Emit {
		v := found[rule.Field]
		if rule.Always || v != "" {
			info = append(info, Pair{Label: rule.Label, Value: v})
		}
	}
	return info
}

// leadingDigits returns the leading run of ASCII digits. A value with no
// leading digits is returned unchanged.
func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return s
	}
	return s[:i]
}
