package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImageFile is an uploaded invoice photo stored alongside the invoice
// extracted from it.
type ImageFile struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Invoice represents a stored invoice for data transfer between layers.
// Optional header fields stay nil when extraction found nothing.
type Invoice struct {
	ID          uuid.UUID        `json:"id"`
	InvoiceCode *string          `json:"invoice_code,omitempty"`
	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	ImageID     uuid.UUID        `json:"image_id"`
	RawText     string           `json:"raw_text"`
	CreatedAt   time.Time        `json:"created_at"`
	Items       []InvoiceItem    `json:"items"`
}

// InvoiceItem is one stored line item belonging to an invoice.
type InvoiceItem struct {
	ID         uuid.UUID       `json:"id"`
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
