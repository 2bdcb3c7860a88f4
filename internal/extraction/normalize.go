package extraction

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// Normalize produces the matching view of an OCR text: whitespace runs
// (including newlines) collapse to single spaces and everything is
// lower-cased. The caller-visible result always carries the original
// text; this view exists only for pattern matching.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(reWhitespace.ReplaceAllString(text, " ")))
}
