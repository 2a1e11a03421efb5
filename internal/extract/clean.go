package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxCodeLength rejects identifier values this long or longer: real line
// items never carry them, merged summary cells and parsing noise do.
const maxCodeLength = 20

// Clean applies the row-level pipeline that runs before resolution: rows
// without an identifier are dropped, the table is truncated at the first
// summary row (an identifier containing TOTAL), and implausibly long
// identifiers are rejected.
func Clean(t *Table) *Table {
	cleaned := &Table{}
	for _, row := range t.Rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			continue
		}
		// Spreadsheets append summary rows after the line items; nothing at
		// or below the first one is a fact row.
		if strings.Contains(fold(code), "TOTAL") {
			break
		}
		if utf8.RuneCountInString(code) >= maxCodeLength {
			continue
		}
		row.Code = code
		cleaned.Rows = append(cleaned.Rows, row)
	}
	return cleaned
}

// ParseNumber coerces a raw cell into a float, yielding nil instead of an
// error on blank or non-numeric input. Thousands separators and a
// comma-as-decimal (common in Brazilian exports) are tolerated.
func ParseNumber(s string) *float64 {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return nil
	}

	if v, err := strconv.ParseFloat(clean, 64); err == nil {
		return &v
	}

	// "1.234,56" and "1234,56" both mean 1234.56.
	if strings.Contains(clean, ",") {
		alt := strings.ReplaceAll(clean, ".", "")
		alt = strings.ReplaceAll(alt, ",", ".")
		if v, err := strconv.ParseFloat(alt, 64); err == nil {
			return &v
		}
	}
	return nil
}
