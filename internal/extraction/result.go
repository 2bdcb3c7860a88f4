package extraction

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractionResult is the structured output of one pass over an OCR'd
// invoice. Optional fields are nil when no pattern matched; RawText is
// always the verbatim input.
type ExtractionResult struct {
	InvoiceCode *string          `json:"invoice_code"`
	PaymentDate *time.Time       `json:"payment_date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Items       []LineItem       `json:"items"`
	RawText     string           `json:"raw_text"`
}

// LineItem is one row of the invoice's goods/services table.
// UnitPrice and TotalPrice are recorded as read; quantity * unit price
// is not reconciled against the total because OCR noise makes the
// arithmetic unreliable.
type LineItem struct {
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
