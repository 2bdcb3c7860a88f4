package extraction

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractItems_QuantityLayout(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		"1",
		"Phí dịch vụ vệ sinh sofa",
		"Chiếc",
		"2",
		"30,000",
		"60,000",
	}, "\n")

	items := e.ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Phí dịch vụ vệ sinh sofa", items[0].ItemName)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(30000)))
	assert.True(t, items[0].TotalPrice.Equal(decimal.NewFromInt(60000)))
}

func TestExtractItems_NoQuantityLayout(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		"1",
		"Phí giặt thảm văn phòng",
		"Chiếc",
		"450.000",
		"450.000",
	}, "\n")

	items := e.ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(450000)))
}

func TestExtractItems_MathGlyphMarker(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		`\mathfrak{D}`,
		"Phí vận chuyển nội thành",
		"Lần",
		"1",
		"120,000",
		"120,000",
	}, "\n")

	items := e.ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Phí vận chuyển nội thành", items[0].ItemName)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestExtractItems_HeaderRowRejected(t *testing.T) {
	e := NewExtractor(nil)

	// "1" followed by a column-header line must not start a row; the
	// scan resumes one line later and finds the real row.
	text := strings.Join([]string{
		"1",
		"Tên hàng hóa phí dịch vụ",
		"2",
		"Phí bảo trì thang máy",
		"Tháng",
		"3",
		"500,000",
		"1,500,000",
	}, "\n")

	items := e.ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Phí bảo trì thang máy", items[0].ItemName)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].TotalPrice.Equal(decimal.NewFromInt(1500000)))
}

func TestExtractItems_NameWithoutFeeKeywordRejected(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		"1",
		"Nước khoáng chai lớn",
		"Chai",
		"2",
		"10,000",
		"20,000",
	}, "\n")

	assert.Empty(t, e.extractTableItems(text))
}

func TestExtractItems_ShortNameRejected(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{"1", "phí", "Cái", "1", "5,000", "5,000"}, "\n")
	assert.Empty(t, e.extractTableItems(text))
}

func TestExtractItems_ZeroPriceRejected(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		"1",
		"Phí dịch vụ trọn gói",
		"Gói",
		"1",
		"0",
		"0",
	}, "\n")

	assert.Empty(t, e.extractTableItems(text))
}

func TestExtractItems_MultipleRows(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		"stt",
		"1",
		"Phí dịch vụ vệ sinh kính",
		"M2",
		"10",
		"15,000",
		"150,000",
		"2",
		"Phí thuê giàn giáo",
		"Bộ",
		"200,000",
		"200,000",
	}, "\n")

	items := e.ExtractItems(text)
	require.Len(t, items, 2)
	assert.Equal(t, 10, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "Phí thuê giàn giáo", items[1].ItemName)
}

func TestExtractItems_FallbackPipeRows(t *testing.T) {
	e := NewExtractor(nil)

	text := "| 1 | Phi dịch vụ vệ sinh sofa | | Chiếc | | 450,000 | 450,000 |"

	items := e.ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Phi dịch vụ vệ sinh sofa", items[0].ItemName)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(450000)))
}

func TestExtractItemsFallback_StripsMarkupAndFilters(t *testing.T) {
	e := NewExtractor(nil)

	text := strings.Join([]string{
		"| 1 | <b>Phí giặt rèm</b> | | Bộ | | 300,000 | 300,000 |",
		"| 2 | Ghế xoay | | Cái | | 700,000 | 700,000 |",
		"| 3 | Phí lắp đặt | | Lần | | x | y |",
	}, "\n")

	items := e.extractItemsFallback(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Phí giặt rèm", items[0].ItemName)
}

func TestExtractItems_PrimarySuppressesFallback(t *testing.T) {
	e := NewExtractor(nil)

	// Both shapes are present; since the table scan already produced a
	// row, the pipe-row fallback must not add the second item.
	text := strings.Join([]string{
		"1",
		"Phí dịch vụ vệ sinh sofa",
		"Chiếc",
		"2",
		"30,000",
		"60,000",
		"| 9 | Phi khác | | Lần | | 111,000 | 111,000 |",
	}, "\n")

	items := e.ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Phí dịch vụ vệ sinh sofa", items[0].ItemName)
}
