package extraction

import (
	"log/slog"
)

// Extractor turns raw OCR text from Vietnamese invoices into an
// ExtractionResult. It holds only the immutable pattern configuration,
// so one instance may be shared across goroutines.
type Extractor struct {
	patterns *patternSet
	logger   *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{patterns: defaultPatterns(), logger: logger}
}

// ExtractAll runs every field extractor over one document. Fields that
// match nothing stay nil and the item list may be empty; that is a
// valid result, never an error. The verbatim input is always attached
// as RawText.
func (e *Extractor) ExtractAll(text string) ExtractionResult {
	clean := Normalize(text)
	e.logger.Debug("extraction.start", "bytes", len(text))

	code := e.extractCode(clean)
	date := e.extractDate(clean)
	amount := e.extractAmount(clean)
	items := e.ExtractItems(text)

	e.logger.Info("extraction.complete",
		"code_found", code != nil,
		"date_found", date != nil,
		"amount_found", amount != nil,
		"item_count", len(items),
	)

	return ExtractionResult{
		InvoiceCode: code,
		PaymentDate: date,
		TotalAmount: amount,
		Items:       items,
		RawText:     text,
	}
}

// ExtractItems reconstructs line items from the raw (line-oriented)
// text: the windowed table scan first, the consolidated-row fallback
// only when the primary pass finds nothing.
func (e *Extractor) ExtractItems(text string) []LineItem {
	items := e.extractTableItems(text)
	if len(items) == 0 {
		e.logger.Debug("extraction.items.fallback")
		items = e.extractItemsFallback(text)
	}
	return items
}
