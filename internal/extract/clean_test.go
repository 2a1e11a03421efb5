package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanDropsBlankCodes(t *testing.T) {
	table := &Table{Rows: []Row{
		{Code: "A1"},
		{Code: "   "},
		{Code: "A2"},
	}}
	cleaned := Clean(table)
	require.Len(t, cleaned.Rows, 2)
	assert.Equal(t, "A1", cleaned.Rows[0].Code)
	assert.Equal(t, "A2", cleaned.Rows[1].Code)
}

func TestCleanTruncatesAtTotal(t *testing.T) {
	table := &Table{Rows: []Row{
		{Code: "A1"},
		{Code: "A2"},
		{Code: "Subtotal geral"},
		{Code: "A3"},
	}}
	cleaned := Clean(table)
	require.Len(t, cleaned.Rows, 2)
	assert.Equal(t, "A2", cleaned.Rows[1].Code)
}

func TestCleanRejectsImplausiblyLongCodes(t *testing.T) {
	table := &Table{Rows: []Row{
		{Code: "OK-123"},
		{Code: "THIS IS NOT A LINE ITEM CODE AT ALL"},
		{Code: "1234567890123456789"}, // 19 runes, still plausible
	}}
	cleaned := Clean(table)
	require.Len(t, cleaned.Rows, 2)
}

func TestCleanTrimsCodes(t *testing.T) {
	cleaned := Clean(&Table{Rows: []Row{{Code: "  A1  "}}})
	require.Len(t, cleaned.Rows, 1)
	assert.Equal(t, "A1", cleaned.Rows[0].Code)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"1234.56", f(1234.56)},
		{" 42 ", f(42)},
		{"1.234,56", f(1234.56)},
		{"1234,5", f(1234.5)},
		{"", nil},
		{"   ", nil},
		{"n/a", nil},
		{"R$ 100", nil},
	}
	for _, c := range cases {
		got := ParseNumber(c.in)
		if c.want == nil {
			assert.Nil(t, got, "input %q", c.in)
			continue
		}
		require.NotNil(t, got, "input %q", c.in)
		assert.InDelta(t, *c.want, *got, 1e-9, "input %q", c.in)
	}
}

func f(v float64) *float64 { return &v }
