package extraction

import "strings"

// ExtractCode finds the invoice code (ký hiệu / serial). Patterns are
// tried in order and the first match wins; later, more general
// patterns are never consulted once an earlier one matches.
func (e *Extractor) ExtractCode(text string) *string {
	return e.extractCode(Normalize(text))
}

func (e *Extractor) extractCode(clean string) *string {
	for _, p := range e.patterns.code {
		for _, m := range p.re.FindAllStringSubmatchIndex(clean, -1) {
			// Reject matches that close out the text when the pattern
			// carries the not-at-end guard.
			if p.notAtEnd && strings.TrimSpace(clean[m[1]:]) == "" {
				continue
			}
			start, end := m[0], m[1]
			if p.re.NumSubexp() > 0 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			code := strings.ToUpper(clean[start:end])
			return &code
		}
	}
	return nil
}
