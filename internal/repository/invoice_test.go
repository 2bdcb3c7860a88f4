package repository

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/invoice-ocr/internal/common"
)

// fakeRow assigns canned values to Scan destinations.
type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch v := f.values[i].(type) {
		case uuid.UUID:
			*d.(*uuid.UUID) = v
		case *string:
			*d.(**string) = v
		case *time.Time:
			*d.(**time.Time) = v
		case string:
			*d.(*string) = v
		case time.Time:
			*d.(*time.Time) = v
		}
	}
	return nil
}

func testRepo() *invoiceRepo {
	return &invoiceRepo{logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))}
}

func TestScanInvoiceParsesNumericText(t *testing.T) {
	id := uuid.New()
	imageID := uuid.New()
	code := "AB-123"
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	total := "130000.00"

	inv, err := testRepo().scanInvoice(fakeRow{values: []any{
		id, &code, &date, &total, imageID, "raw", time.Now(),
	}})
	require.NoError(t, err)
	assert.Equal(t, id, inv.ID)
	require.NotNil(t, inv.TotalAmount)
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("130000")))
	require.NotNil(t, inv.InvoiceCode)
	assert.Equal(t, "AB-123", *inv.InvoiceCode)
}

func TestScanInvoiceNullableFields(t *testing.T) {
	inv, err := testRepo().scanInvoice(fakeRow{values: []any{
		uuid.New(), (*string)(nil), (*time.Time)(nil), (*string)(nil), uuid.New(), "raw", time.Now(),
	}})
	require.NoError(t, err)
	assert.Nil(t, inv.InvoiceCode)
	assert.Nil(t, inv.PaymentDate)
	assert.Nil(t, inv.TotalAmount)
}

func TestScanInvoiceBadNumeric(t *testing.T) {
	bad := "not-a-number"
	_, err := testRepo().scanInvoice(fakeRow{values: []any{
		uuid.New(), (*string)(nil), (*time.Time)(nil), &bad, uuid.New(), "raw", time.Now(),
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDatabase)
}
