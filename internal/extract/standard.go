package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerScanLimit bounds how deep into a sheet the header row is searched.
const headerScanLimit = 30

// sheetSynonyms mark the data sheet of a standard workbook; the first sheet
// whose lowercase name contains one of them wins.
var sheetSynonyms = []string{
	"media plan",
	"plano",
	"veiculacao",
	"mídia",
	"plano base",
	"base",
}

type fieldSpec struct {
	assign   func(*Row, string)
	synonyms []string
}

// standardFields binds canonical fields to source headers by substring
// match, first header wins. Order matters: earlier fields claim their
// header before later, more generic synonyms get a chance to.
var standardFields = []fieldSpec{
	{func(r *Row, v string) { r.Code = v }, []string{"code"}},
	{func(r *Row, v string) { r.Campaign = v }, []string{"campaign", "campanha"}},
	{func(r *Row, v string) { r.Target = v }, []string{"target"}},
	{func(r *Row, v string) { r.Country = v }, []string{"country"}},
	{func(r *Row, v string) { r.Market = v }, []string{"market", "praça", "praca"}},
	{func(r *Row, v string) { r.State = v }, []string{"state", "uf"}},
	{func(r *Row, v string) { r.Location = v }, []string{"location", "local/sinal"}},
	{func(r *Row, v string) { r.Exhibitor = v }, []string{"exhibitor", "veículo", "veiculo", "exibidor"}},
	{func(r *Row, v string) { r.Media = v }, []string{"media", "formato"}},
	{func(r *Row, v string) { r.Classification = v }, []string{"classification"}},
	{func(r *Row, v string) { r.DisplayType = v }, []string{"type", "det/seg"}},
	{func(r *Row, v string) { r.Size = v }, []string{"size"}},
	{func(r *Row, v string) { r.Frequency = v }, []string{"frequency"}},
	{func(r *Row, v string) { r.PeriodQuantity = v }, []string{"period quantity"}},
	{func(r *Row, v string) { r.InsertionFacesPeriod = v }, []string{"insertion"}},
	{func(r *Row, v string) { r.PurchaseUnit = v }, []string{"purchase unit"}},
	{func(r *Row, v string) { r.StartDate = v }, []string{"start date", "data de início", "data de inicio"}},
	{func(r *Row, v string) { r.EndDate = v }, []string{"end date", "data final"}},
	{func(r *Row, v string) { r.WeeklyFlow = v }, []string{"weekly flow"}},
	{func(r *Row, v string) { r.WeeklyImpact = v }, []string{"weekly impact", "potencial de impactos semanais"}},
	{func(r *Row, v string) { r.PeriodicImpact = v }, []string{"periodic impact", "potencial de impactos no período"}},
	{func(r *Row, v string) { r.FacesXFrequency = v }, []string{"faces x frequency", "volume"}},
	{func(r *Row, v string) { r.CPMTarget = v }, []string{"cpm/target"}},
	{func(r *Row, v string) { r.NetUnitPrice = v }, []string{"net unit price"}},
	{func(r *Row, v string) { r.NetTotal = v }, []string{"net total", "$tt liquido negociado"}},
}

// StandardReader handles the common workbook layout: a media-plan sheet,
// a header row announced by a CODE column, and headers mapped to canonical
// fields through the synonym table.
type StandardReader struct{}

// NewStandardReader creates the default mapper.
func NewStandardReader() *StandardReader {
	return &StandardReader{}
}

// Map implements Mapper.
func (m *StandardReader) Map(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := findSheet(f.GetSheetList())
	if sheet == "" {
		return nil, fmt.Errorf("no media-plan sheet found")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerIdx := findHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("sheet %q: header row with CODE column not found", sheet)
	}

	headers := normalizeHeaders(rows[headerIdx])
	bindings := bindColumns(headers)

	table := &Table{}
	for _, raw := range rows[headerIdx+1:] {
		var row Row
		for _, b := range bindings {
			b.assign(&row, strings.TrimSpace(cell(raw, b.col)))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func findSheet(names []string) string {
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, syn := range sheetSynonyms {
			if strings.Contains(lower, syn) {
				return name
			}
		}
	}
	return ""
}

// findHeaderRow locates the first row announcing the data header: CODE in
// one of its first five cells.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if i >= headerScanLimit {
			break
		}
		limit := len(row)
		if limit > 5 {
			limit = 5
		}
		for _, c := range row[:limit] {
			if strings.Contains(fold(c), "CODE") {
				return i
			}
		}
	}
	return -1
}

// normalizeHeaders lowercases headers and collapses embedded newlines, the
// same way the synonym table is written.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "\n", " ")))
	}
	return headers
}

type binding struct {
	col    int
	assign func(*Row, string)
}

// bindColumns resolves each canonical field to a source column index,
// independently per field: two fields may read the same column. An
// unmatched field simply stays unbound, which leaves the Row field blank.
func bindColumns(headers []string) []binding {
	var bindings []binding
	for _, spec := range standardFields {
		if col, ok := matchHeader(headers, spec.synonyms); ok {
			bindings = append(bindings, binding{col: col, assign: spec.assign})
		}
	}
	return bindings
}

func matchHeader(headers []string, synonyms []string) (int, bool) {
	for _, syn := range synonyms {
		for i, h := range headers {
			if h != "" && strings.Contains(h, syn) {
				return i, true
			}
		}
	}
	return 0, false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func fold(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
