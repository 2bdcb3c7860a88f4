package extraction

import "regexp"

// codePattern is one candidate in the invoice-code priority chain.
// notAtEnd rejects a match with nothing but whitespace after it; a
// code that ends the text is probably a lookup or tracking code. RE2
// has no lookahead, so this is a post-condition rather than (?!\s*$).
type codePattern struct {
	re       *regexp.Regexp
	notAtEnd bool
}

// patternSet is the read-only pattern configuration shared by every
// extraction call. Built once in NewExtractor and never mutated, so a
// single engine is safe for concurrent use.
type patternSet struct {
	code    []codePattern
	vnDate  *regexp.Regexp
	date    []*regexp.Regexp
	amount  []*regexp.Regexp
	itemRow *regexp.Regexp
}

// dateFormats are tried in order against single-capture numeric dates.
var dateFormats = []string{
	"2/1/2006",
	"2-1-2006",
	"1/2/2006",
	"1-2-2006",
}

func defaultPatterns() *patternSet {
	return &patternSet{
		// Most specific first: explicit serial labels beat bare token
		// patterns, which would otherwise pick up lookup codes.
		code: []codePattern{
			{re: regexp.MustCompile(`(?i)ký hiệu\s*\(serial\)\s*:\s*([A-Z0-9\-/]+)(?:\s+s6)?`)},
			{re: regexp.MustCompile(`(?i)serial\s*\)\s*:\s*([A-Z0-9\-/]+)(?:\s+s6)?`)},
			{re: regexp.MustCompile(`(?i)([A-Z0-9]+TDM)(?:\s+s6)?`)},
			{re: regexp.MustCompile(`(?i)(?:ký hiệu|serial)[:\s]*([A-Z0-9\-/]+)`), notAtEnd: true},
			{re: regexp.MustCompile(`(?i)(?:số|number)[:\s]*([A-Z0-9\-/]+)`), notAtEnd: true},
		},
		// Long-form Vietnamese date, handled separately: its explicit
		// day/month/year groups make it unambiguous.
		vnDate: regexp.MustCompile(`ngày\s*(\d{1,2})\s*tháng\s*(\d{1,2})\s*năm\s*(\d{4})`),
		date: []*regexp.Regexp{
			regexp.MustCompile(`ngày\s*(\d{1,2})\s*tháng\s*(\d{1,2})\s*năm\s*(\d{4})`),
			regexp.MustCompile(`ngày[:\s]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
			regexp.MustCompile(`date[:\s]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
			regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
		},
		amount: []*regexp.Regexp{
			regexp.MustCompile(`tổng tiền thanh toán\s*[/(]*[^:]*:\s*([0-9.,]+)`),
			regexp.MustCompile(`grand total[)]*:\s*([0-9.,]+)`),
			regexp.MustCompile(`tổng\s*(?:cộng|tiền)\s*thanh\s*toán[^:]*:\s*([0-9.,]+)`),
			regexp.MustCompile(`tổng\s*(?:cộng|tiền)[:\s]*([0-9.,]+)`),
			regexp.MustCompile(`total[:\s]*([0-9.,]+)`),
			// Last resort: a grouped number closing the text, optionally
			// tagged with the currency word.
			regexp.MustCompile(`([0-9]{1,3}(?:\.[0-9]{3})*)\s*(?:đồng|vnd)?$`),
		},
		// Consolidated markdown-table row for the fallback item pass:
		// seq | name | (ignored) | unit | (placeholder) | unit price | total.
		itemRow: regexp.MustCompile(`(\d+)\s*\|\s*([^|]+?)\s*\|\s*[^|]*\s*\|\s*([^|]*?)\s*\|\s*([^|]*?)\s*\|\s*([0-9.,]+)\s*\|\s*([0-9.,]+)`),
	}
}
