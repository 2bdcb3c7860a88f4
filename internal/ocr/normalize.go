package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(`[ ]{2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)

	// Stray box-drawing and bullet noise that tesseract emits around
	// table grids on scanned invoices.
	reBoxNoise = regexp.MustCompile(`[|¦│┃]{2,}|[─━═_]{4,}`)
)

// normalizeOCRText cleans up the raw tool output without touching
// content the extraction stage depends on. Single pipe characters are
// kept since table rows use them as column separators.
func normalizeOCRText(text string) string {
	text = reCRLF.ReplaceAllString(text, "\n")
	text = reTabs.ReplaceAllString(text, " ")
	text = reBoxNoise.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = reMultiSpace.ReplaceAllString(line, " ")
		lines[i] = strings.TrimRight(line, " ")
	}
	text = strings.Join(lines, "\n")
	text = reMultiBlank.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
