package export

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/invoice-ocr/internal/entity"
)

// DailySummary aggregates invoices sharing a payment date.
type DailySummary struct {
	Date         time.Time       `json:"date"`
	InvoiceCount int             `json:"invoice_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// Summarize groups invoices by payment date and totals their amounts.
// Invoices lacking a payment date are ignored; invoices lacking an
// amount still count toward InvoiceCount. Output is sorted by date.
func Summarize(invoices []*entity.Invoice) []DailySummary {
	byDay := make(map[time.Time]*DailySummary)
	for _, inv := range invoices {
		if inv.PaymentDate == nil {
			continue
		}
		d := inv.PaymentDate.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		s, ok := byDay[day]
		if !ok {
			s = &DailySummary{Date: day}
			byDay[day] = s
		}
		s.InvoiceCount++
		if inv.TotalAmount != nil {
			s.TotalAmount = s.TotalAmount.Add(*inv.TotalAmount)
		}
	}

	out := make([]DailySummary, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
