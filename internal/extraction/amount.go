package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// A dot or comma sitting before a three-digit group is a thousands
	// separator. RE2 has no lookahead, so the digits are consumed and
	// re-emitted instead of asserted.
	reThousandsSep = regexp.MustCompile(`[.,](\d{3})`)
	reNonNumeric   = regexp.MustCompile(`[^\d.,]`)
)

// ExtractAmount finds the invoice total. Patterns run from the most
// specific labeled total down to a bare number-at-end heuristic; a
// match whose capture fails numeric cleaning does not abort the scan,
// the next pattern is tried instead.
func (e *Extractor) ExtractAmount(text string) *decimal.Decimal {
	return e.extractAmount(Normalize(text))
}

func (e *Extractor) extractAmount(clean string) *decimal.Decimal {
	for _, re := range e.patterns.amount {
		m := re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		captured := m[0]
		if re.NumSubexp() > 0 {
			captured = m[1]
		}
		if d, ok := cleanDecimal(captured); ok {
			return &d
		}
	}
	return nil
}

// cleanDecimal normalizes an OCR money string, which may use either
// the Vietnamese convention (130.000 đồng) or comma grouping
// (450,000): strip non-numeric noise, drop thousands separators, then
// treat any remaining comma as the decimal point.
func cleanDecimal(s string) (decimal.Decimal, bool) {
	s = reNonNumeric.ReplaceAllString(s, "")
	s = reThousandsSep.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
