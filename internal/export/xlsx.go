package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/minhvu-dev/invoice-ocr/internal/repository"
)

// Service is a tiny façade over the invoice repository that produces
// XLSX bytes for summary exports.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

const (
	summarySheet = "Daily Summary"
	detailSheet  = "Detailed Invoices"
)

// ExportSummaryXLSX returns a workbook with a per-day summary sheet
// and a detail sheet listing every invoice in the window (inclusive).
func (s *Service) ExportSummaryXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	start := time.Now()

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	invoices, err := s.invoices.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	summaries := Summarize(invoices)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range []string{"Date", "Invoices", "Total Amount", "Average Amount"} {
		write(summarySheet, i+1, 1, h)
	}
	for i, sum := range summaries {
		row := i + 2
		write(summarySheet, 1, row, sum.Date.Format("2006-01-02"))
		write(summarySheet, 2, row, sum.InvoiceCount)
		total, _ := sum.TotalAmount.Float64()
		write(summarySheet, 3, row, total)
		avg, _ := sum.TotalAmount.DivRound(decimal.NewFromInt(int64(sum.InvoiceCount)), 2).Float64()
		write(summarySheet, 4, row, avg)
	}
	_ = f.SetColWidth(summarySheet, "A", "D", 16)

	for i, h := range []string{"Payment Date", "Invoice Code", "Item", "Quantity", "Unit Price", "Total Price", "Invoice Total", "Invoice ID"} {
		write(detailSheet, i+1, 1, h)
	}
	row := 2
	for _, inv := range invoices {
		writeHeader := func(r int) {
			if inv.PaymentDate != nil {
				write(detailSheet, 1, r, inv.PaymentDate.Format("2006-01-02"))
			}
			if inv.InvoiceCode != nil {
				write(detailSheet, 2, r, *inv.InvoiceCode)
			}
			if inv.TotalAmount != nil {
				total, _ := inv.TotalAmount.Float64()
				write(detailSheet, 7, r, total)
			}
			write(detailSheet, 8, r, inv.ID.String())
		}
		if len(inv.Items) == 0 {
			writeHeader(row)
			row++
			continue
		}
		for _, item := range inv.Items {
			writeHeader(row)
			write(detailSheet, 3, row, item.ItemName)
			write(detailSheet, 4, row, item.Quantity)
			unit, _ := item.UnitPrice.Float64()
			write(detailSheet, 5, row, unit)
			tot, _ := item.TotalPrice.Float64()
			write(detailSheet, 6, row, tot)
			row++
		}
	}
	_ = f.SetColWidth(detailSheet, "A", "B", 16)
	_ = f.SetColWidth(detailSheet, "C", "C", 40)
	_ = f.SetColWidth(detailSheet, "D", "G", 14)
	_ = f.SetColWidth(detailSheet, "H", "H", 38)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("summary export built",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"invoices", len(invoices),
		"days", len(summaries),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
