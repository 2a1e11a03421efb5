package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/planhouse/planhouse/internal/match"
)

// coverSheet holds the demand code and campaign name of a Bradesco workbook.
const coverSheet = "Capa"

// coverScanLimit bounds the cover-sheet label search.
const coverScanLimit = 20

// headerMatchThreshold is the similarity floor for the fuzzy-bound headers.
// Date and impact headers in these files vary in spacing and typing; the
// rest bind by exact equality to guard against substring collisions
// ("tipo" vs "tipo de mídia").
const headerMatchThreshold = 90

// bradescoSheets are the data tab names, with their accent variants.
var bradescoSheets = map[string]bool{
	"MIDIA OBRIGATÓRIA": true,
	"MÍDIA OBRIGATÓRIA": true,
	"MIDIA AVULSA":      true,
	"MÍDIA AVULSA":      true,
	"MIDIA OBRIGATORIA": true,
}

type bradescoField struct {
	assign   func(*Row, string)
	synonyms []string
	fuzzy    bool
}

var bradescoFields = []bradescoField{
	{assign: func(r *Row, v string) { r.StartDate = v }, synonyms: []string{"data de início", "data de inicio"}, fuzzy: true},
	{assign: func(r *Row, v string) { r.EndDate = v }, synonyms: []string{"data de termino", "data de término"}, fuzzy: true},
	{assign: func(r *Row, v string) { r.PeriodicImpact = v }, synonyms: []string{"potencial de impacto pop", "potencial de impacto  pop"}, fuzzy: true},

	{assign: func(r *Row, v string) { r.Market = v }, synonyms: []string{"cidade"}},
	{assign: func(r *Row, v string) { r.State = v }, synonyms: []string{"uf"}},
	{assign: func(r *Row, v string) { r.Exhibitor = v }, synonyms: []string{"exibidor"}},
	{assign: func(r *Row, v string) { r.Media = v }, synonyms: []string{"tipo"}},
	{assign: func(r *Row, v string) { r.Classification = v }, synonyms: []string{"tipo de mídia"}},
	{assign: func(r *Row, v string) { r.PeriodQuantity = v }, synonyms: []string{"período", "periodo"}},
	{assign: func(r *Row, v string) { r.NetTotal = v }, synonyms: []string{"r$ total liquido"}},
	{assign: func(r *Row, v string) { r.CPMTarget = v }, synonyms: []string{"cpm (desembolso)"}},
	{assign: func(r *Row, v string) { r.InsertionFacesPeriod = v }, synonyms: []string{"faces"}},
	{assign: func(r *Row, v string) { r.Location = v }, synonyms: []string{"mídia", "midia"}},
	{assign: func(r *Row, v string) { r.Size = v }, synonyms: []string{"formato"}},
}

// BradescoReader handles the Bradesco workbook layout: a cover sheet naming
// the demand and campaign, and one or two media tabs whose header row is
// announced by CIDADE and EXIBIDOR columns.
type BradescoReader struct{}

// NewBradescoReader creates the Bradesco-specific mapper.
func NewBradescoReader() *BradescoReader {
	return &BradescoReader{}
}

// Map implements Mapper.
func (m *BradescoReader) Map(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	code, campaign := m.readCover(f)
	if code == "" {
		code = filepath.Base(path)
	}

	table := &Table{}
	for _, sheet := range f.GetSheetList() {
		if !bradescoSheets[fold(sheet)] {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		m.appendSheet(table, rows, code, campaign)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no media tab with data found")
	}
	return table, nil
}

// readCover scans the cover sheet for the DEMANDA and CAMPANHA labels in
// column B and takes their values from column C.
func (m *BradescoReader) readCover(f *excelize.File) (code, campaign string) {
	rows, err := f.GetRows(coverSheet)
	if err != nil {
		return "", ""
	}
	for i, row := range rows {
		if i >= coverScanLimit {
			break
		}
		label := fold(cell(row, 1))
		if strings.Contains(label, "DEMANDA") {
			code = strings.TrimSpace(cell(row, 2))
		}
		if strings.Contains(label, "CAMPANHA") {
			campaign = strings.TrimSpace(cell(row, 2))
		}
	}
	return code, campaign
}

func (m *BradescoReader) appendSheet(table *Table, rows [][]string, code, campaign string) {
	headerIdx := findBradescoHeader(rows)
	if headerIdx < 0 {
		return
	}

	headers := normalizeHeaders(rows[headerIdx])
	bindings := bindBradescoColumns(headers)
	marketCol := exactColumn(headers, "cidade")

	for _, raw := range rows[headerIdx+1:] {
		market := strings.TrimSpace(cell(raw, marketCol))
		if strings.Contains(fold(market), "TOTAL") {
			break
		}
		if market == "" {
			continue
		}
		row := Row{
			Code:     code,
			Campaign: campaign,
			Country:  "BRASIL",
		}
		for _, b := range bindings {
			b.assign(&row, strings.TrimSpace(cell(raw, b.col)))
		}
		table.Rows = append(table.Rows, row)
	}
}

// findBradescoHeader looks for the row carrying both CIDADE and EXIBIDOR
// cells.
func findBradescoHeader(rows [][]string) int {
	for i, row := range rows {
		if i >= headerScanLimit {
			break
		}
		var hasCity, hasExhibitor bool
		for _, c := range row {
			switch fold(c) {
			case "CIDADE":
				hasCity = true
			case "EXIBIDOR":
				hasExhibitor = true
			}
		}
		if hasCity && hasExhibitor {
			return i
		}
	}
	return -1
}

func bindBradescoColumns(headers []string) []binding {
	var bindings []binding
	for _, spec := range bradescoFields {
		var (
			col int
			ok  bool
		)
		if spec.fuzzy {
			col, ok = fuzzyColumn(headers, spec.synonyms)
		} else {
			for _, syn := range spec.synonyms {
				if col = exactColumn(headers, syn); col >= 0 {
					ok = true
					break
				}
			}
		}
		if ok {
			bindings = append(bindings, binding{col: col, assign: spec.assign})
		}
	}
	return bindings
}

// fuzzyColumn picks the header scoring best against any synonym, at or
// above the match threshold.
func fuzzyColumn(headers []string, synonyms []string) (int, bool) {
	bestCol, bestScore := -1, 0
	for _, syn := range synonyms {
		for i, h := range headers {
			if h == "" {
				continue
			}
			score := match.TokenSortRatio(syn, h)
			if score >= headerMatchThreshold && score > bestScore {
				bestCol, bestScore = i, score
			}
		}
	}
	return bestCol, bestCol >= 0
}

func exactColumn(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
