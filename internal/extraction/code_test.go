package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode_SerialLabel(t *testing.T) {
	e := NewExtractor(nil)

	code := e.ExtractCode("ký hiệu (serial): HD2024001TDM\nsố hóa đơn: 0000123")
	require.NotNil(t, code)
	assert.Equal(t, "HD2024001TDM", *code)
}

func TestExtractCode_SpecificBeatsGeneral(t *testing.T) {
	e := NewExtractor(nil)

	// Both the serial label and a bare "số" label are present; the
	// serial pattern sits earlier in the chain and must win.
	code := e.ExtractCode("số: ABC123 xyz ký hiệu (serial): AA24TAB trailer")
	require.NotNil(t, code)
	assert.Equal(t, "AA24TAB", *code)
}

func TestExtractCode_TDMToken(t *testing.T) {
	e := NewExtractor(nil)

	code := e.ExtractCode("hóa đơn bán hàng 1C24TDM s6 0000456")
	require.NotNil(t, code)
	assert.Equal(t, "1C24TDM", *code)
}

func TestExtractCode_RejectsCodeClosingTheText(t *testing.T) {
	e := NewExtractor(nil)

	// A bare labeled code that ends the document looks like a lookup
	// code, not an invoice code.
	assert.Nil(t, e.ExtractCode("tra cứu số: ANCF8E1SW3"))
}

func TestExtractCode_LabeledCodeMidText(t *testing.T) {
	e := NewExtractor(nil)

	code := e.ExtractCode("số: AB-12/C ngày 01/02/2024")
	require.NotNil(t, code)
	assert.Equal(t, "AB-12/C", *code)
}

func TestExtractCode_NoMatch(t *testing.T) {
	e := NewExtractor(nil)

	assert.Nil(t, e.ExtractCode("hóa đơn bán hàng, không có mã"))
	assert.Nil(t, e.ExtractCode(""))
}
