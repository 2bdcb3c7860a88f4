package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// Row-start markers: a bare sequence number, or the math-glyph
	// corruption some OCR backends emit in place of a numeral
	// (e.g. \mathfrak{D}).
	reSeqNumber = regexp.MustCompile(`^\d+$`)
	reMathGlyph = regexp.MustCompile(`^\\math.*[a-zA-Z].*$`)
)

// Column headers that disqualify a candidate name line.
var headerKeywords = []string{
	"stt", "description", "unit", "quantity", "price", "amount", "tên hàng", "dvt",
}

const minNameLen = 5

// extractTableItems reconstructs line items from OCR output that split
// a table row's columns across consecutive lines. A cursor scans the
// line array; on a row-start marker the next line is the candidate
// name, then two layouts are validated in order:
//
//	(a) unit, quantity, unit price, total price (consumes 6 lines)
//	(b) unit, unit price, total price, qty = 1  (consumes 5 lines)
//
// Any rejection advances the cursor a single line, so later lines can
// be reinterpreted as part of an overlapping row.
func (e *Extractor) extractTableItems(text string) []LineItem {
	lines := strings.Split(text, "\n")
	var items []LineItem

	i := 0
	for i < len(lines) {
		marker := strings.TrimSpace(lines[i])
		if !isRowMarker(marker) || i+4 >= len(lines) {
			i++
			continue
		}

		name := strings.TrimSpace(lines[i+1])
		if isHeaderLine(name) || utf8.RuneCountInString(name) < minNameLen || !hasFeeKeyword(name) {
			i++
			continue
		}

		// Layout (a): quantity line must be purely numeric and both
		// price lines must clean to positive decimals.
		if i+5 < len(lines) {
			qtyLine := strings.TrimSpace(lines[i+3])
			unitPrice, okUnit := cleanDecimal(strings.TrimSpace(lines[i+4]))
			totalPrice, okTotal := cleanDecimal(strings.TrimSpace(lines[i+5]))
			if isAllDigits(qtyLine) && okUnit && okTotal && unitPrice.IsPositive() && totalPrice.IsPositive() {
				if qty, err := strconv.Atoi(qtyLine); err == nil && qty >= 1 {
					items = append(items, LineItem{
						ItemName:   name,
						Quantity:   qty,
						UnitPrice:  unitPrice,
						TotalPrice: totalPrice,
					})
					i += 6
					continue
				}
			}
		}

		// Layout (b): no quantity column, implicit quantity of 1.
		unitPrice, okUnit := cleanDecimal(strings.TrimSpace(lines[i+3]))
		totalPrice, okTotal := cleanDecimal(strings.TrimSpace(lines[i+4]))
		if okUnit && okTotal && unitPrice.IsPositive() && totalPrice.IsPositive() {
			items = append(items, LineItem{
				ItemName:   name,
				Quantity:   1,
				UnitPrice:  unitPrice,
				TotalPrice: totalPrice,
			})
			i += 5
			continue
		}

		i++
	}
	return items
}

func isRowMarker(line string) bool {
	return reSeqNumber.MatchString(line) || reMathGlyph.MatchString(line)
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// hasFeeKeyword reports whether a name belongs to this invoice domain
// (service-fee invoices). OCR sometimes strips the diacritic, so the
// bare ASCII form counts too.
func hasFeeKeyword(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "phí") || strings.Contains(lower, "phi")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
