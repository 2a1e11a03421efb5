package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeStandardWorkbook fabricates a typical media-plan export: a title
// block above the header, then the header row, then line items.
func writeStandardWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Media Plan 2025")
	require.NoError(t, err)

	rows := [][]any{
		{"ACME CORP"},
		{"Plano de mídia aprovado"},
		{},
		{"CODE", "CAMPAIGN", "TARGET", "EXHIBITOR", "MEDIA", "CLASSIFICATION", "TYPE", "PERIOD QUANTITY", "NET TOTAL"},
		{"A1", "Summer Launch", "AB 25-40", "CINEMARK", "DIGITAL TOTEM", "OOH", "LED", 4, 1500.5},
		{"A2", "Summer Launch", "AB 25-40", "KINOPLEX", "BACKLIGHT", "OOH", "STATIC", 2, 800},
		{"TOTAL", "", "", "", "", "", "", "", 2300.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Media Plan 2025", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestStandardReaderMapsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeStandardWorkbook(t, path)

	table, err := NewStandardReader().Map(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3) // TOTAL row survives mapping; Clean cuts it

	first := table.Rows[0]
	assert.Equal(t, "A1", first.Code)
	assert.Equal(t, "Summer Launch", first.Campaign)
	assert.Equal(t, "AB 25-40", first.Target)
	assert.Equal(t, "CINEMARK", first.Exhibitor)
	assert.Equal(t, "DIGITAL TOTEM", first.Media)
	assert.Equal(t, "OOH", first.Classification)
	assert.Equal(t, "LED", first.DisplayType)
	assert.Equal(t, "4", first.PeriodQuantity)
	assert.Equal(t, "1500.5", first.NetTotal)

	// Fields absent from the workbook stay blank.
	assert.Empty(t, first.Market)
	assert.Empty(t, first.NetUnitPrice)
}

func TestStandardReaderThenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeStandardWorkbook(t, path)

	table, err := NewStandardReader().Map(path)
	require.NoError(t, err)

	cleaned := Clean(table)
	require.Len(t, cleaned.Rows, 2)
}

func TestStandardReaderNoDataSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"nothing here"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewStandardReader().Map(path)
	assert.Error(t, err)
}

func TestStandardReaderNoHeaderRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headerless.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Plano Base")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Plano Base", "A1", &[]any{"just", "text"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err = NewStandardReader().Map(path)
	assert.Error(t, err)
}

func TestStrategyFor(t *testing.T) {
	assert.IsType(t, &BradescoReader{}, StrategyFor("BRADESCO"))
	assert.IsType(t, &BradescoReader{}, StrategyFor(" bradesco "))
	assert.IsType(t, &StandardReader{}, StrategyFor("ACME"))
}
