package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractDate_VietnameseLongForm(t *testing.T) {
	e := NewExtractor(nil)

	got := e.ExtractDate("ngày 5 tháng 3 năm 2024")
	require.NotNil(t, got)
	assert.Equal(t, day(2024, time.March, 5), *got)
}

func TestExtractDate_InvalidCalendarDateDiscarded(t *testing.T) {
	e := NewExtractor(nil)

	// Day 31 does not exist in February; the long-form match is
	// discarded silently and nothing else in the text parses.
	assert.Nil(t, e.ExtractDate("ngày 31 tháng 2 năm 2024"))
}

func TestExtractDate_SlashNumeric(t *testing.T) {
	e := NewExtractor(nil)

	got := e.ExtractDate("Ngày: 25/01/2024")
	require.NotNil(t, got)
	assert.Equal(t, day(2024, time.January, 25), *got)
}

func TestExtractDate_DashNumeric(t *testing.T) {
	e := NewExtractor(nil)

	got := e.ExtractDate("date: 05-12-2023")
	require.NotNil(t, got)
	assert.Equal(t, day(2023, time.December, 5), *got)
}

func TestExtractDate_MonthFirstFallback(t *testing.T) {
	e := NewExtractor(nil)

	// 25 cannot be a month, so day-first parsing fails and the
	// month/day/year template picks it up.
	got := e.ExtractDate("thanh toán 1/25/2024")
	require.NotNil(t, got)
	assert.Equal(t, day(2024, time.January, 25), *got)
}

func TestExtractDate_LongFormWinsOverNumeric(t *testing.T) {
	e := NewExtractor(nil)

	got := e.ExtractDate("in 02/02/2020 ngày 25 tháng 1 năm 2024")
	require.NotNil(t, got)
	assert.Equal(t, day(2024, time.January, 25), *got)
}

func TestExtractDate_NoMatch(t *testing.T) {
	e := NewExtractor(nil)

	assert.Nil(t, e.ExtractDate("lorem ipsum"))
	assert.Nil(t, e.ExtractDate(""))
}
