package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reMarkup = regexp.MustCompile(`<[^>]+>`)

const minFallbackNameLen = 3

// extractItemsFallback sieves pipe-delimited, markdown-table-like rows
// with a single consolidated pattern. This format does not expose a
// reliable quantity column, so quantity is fixed at 1; rows with
// unparsable prices are dropped rather than reported.
func (e *Extractor) extractItemsFallback(text string) []LineItem {
	var items []LineItem
	for _, m := range e.patterns.itemRow.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(reMarkup.ReplaceAllString(m[2], ""))
		if utf8.RuneCountInString(name) < minFallbackNameLen || !hasFeeKeyword(name) {
			continue
		}
		unitPrice, okUnit := cleanDecimal(m[5])
		totalPrice, okTotal := cleanDecimal(m[6])
		if !okUnit || !okTotal || !unitPrice.IsPositive() || !totalPrice.IsPositive() {
			continue
		}
		items = append(items, LineItem{
			ItemName:   name,
			Quantity:   1,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
		})
	}
	return items
}
