package extraction

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = "ký hiệu (serial): HD2024001TDM\n" +
	"ngày 25 tháng 1 năm 2024\n" +
	"... tổng tiền thanh toán: 130.000\n" +
	"1\n" +
	"Cà phê sữa đá phí dịch vụ\n" +
	"Chiếc\n" +
	"2\n" +
	"30,000\n" +
	"60,000"

func TestExtractAll_EndToEnd(t *testing.T) {
	e := NewExtractor(nil)

	res := e.ExtractAll(sampleInvoice)

	require.NotNil(t, res.InvoiceCode)
	assert.Equal(t, "HD2024001TDM", *res.InvoiceCode)

	require.NotNil(t, res.PaymentDate)
	assert.Equal(t, time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC), *res.PaymentDate)

	require.NotNil(t, res.TotalAmount)
	assert.True(t, res.TotalAmount.Equal(decimal.NewFromInt(130000)))

	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Contains(t, item.ItemName, "phí dịch vụ")
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(30000)))
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(60000)))

	assert.Equal(t, sampleInvoice, res.RawText)
}

func TestExtractAll_NoStructure(t *testing.T) {
	e := NewExtractor(nil)

	res := e.ExtractAll("lorem ipsum")
	assert.Nil(t, res.InvoiceCode)
	assert.Nil(t, res.PaymentDate)
	assert.Nil(t, res.TotalAmount)
	assert.Empty(t, res.Items)
	assert.Equal(t, "lorem ipsum", res.RawText)
}

func TestExtractAll_WhitespaceOnly(t *testing.T) {
	e := NewExtractor(nil)

	res := e.ExtractAll("  \n\t \n")
	assert.Nil(t, res.InvoiceCode)
	assert.Empty(t, res.Items)
	assert.Equal(t, "  \n\t \n", res.RawText)
}

func TestExtractAll_Idempotent(t *testing.T) {
	e := NewExtractor(nil)

	first := e.ExtractAll(sampleInvoice)
	second := e.ExtractAll(sampleInvoice)
	assert.Equal(t, first, second)
}

func TestExtractAll_ConcurrentUse(t *testing.T) {
	e := NewExtractor(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				res := e.ExtractAll(sampleInvoice)
				if res.InvoiceCode == nil || *res.InvoiceCode != "HD2024001TDM" {
					t.Error("concurrent extraction produced a different code")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestExtractAll_RawTextNeverNormalized(t *testing.T) {
	e := NewExtractor(nil)

	in := "MỘT   DÒNG\n\n\nCÓ   KHOẢNG TRẮNG"
	res := e.ExtractAll(in)
	assert.Equal(t, in, res.RawText)
	assert.True(t, strings.Contains(res.RawText, "   "))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("A \n  B\t\tC "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("  \n "))
}
