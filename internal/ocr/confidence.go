package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reAnyDate       = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`)
	reVNDate        = regexp.MustCompile(`(?i)ngày\s*\d{1,2}\s*tháng\s*\d{1,2}\s*năm\s*\d{4}`)
	reCurrency      = regexp.MustCompile(`(?i)đồng|vnd|₫`)
	reGroupedAmount = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+`)
)

// estimateConfidence scores OCR output without per-word data, using
// signals an invoice should carry: printable ratio, a date, a
// currency marker, grouped amounts.
func estimateConfidence(text string) float32 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	var printable, total int
	for _, r := range trimmed {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			printable++
		}
	}
	score := 0.3 * float32(printable) / float32(total)

	if len(trimmed) > 100 {
		score += 0.2
	} else if len(trimmed) > 30 {
		score += 0.1
	}
	if reAnyDate.MatchString(trimmed) || reVNDate.MatchString(trimmed) {
		score += 0.2
	}
	if reCurrency.MatchString(trimmed) {
		score += 0.15
	}
	if reGroupedAmount.MatchString(trimmed) {
		score += 0.15
	}

	if score > 1 {
		score = 1
	}
	return score
}
