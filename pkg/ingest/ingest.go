package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet date serials count days since 1899-12-30; 25569 is the
// serial of the Unix epoch. Serials in (25569, 47483) land between 1970
// and 2099 and are treated as probable dates.
const (
	epochSerial = 25569
	maxSerial   = 47483
	secondsDay  = 86400
)

const sampleSize = 10

// Parse reads the first sheet of an xlsx/xls workbook into a Table.
// The first row is the header; a sheet with zero data rows yields an
// empty Table, not an error. Column types are inferred once, here.
func Parse(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(raw) < 2 {
		return &Table{}, nil
	}

	return FromRows(raw[0], raw[1:]), nil
}

// FromRows builds a Table from a header row and raw data rows. Shared by
// the workbook and HTML-table ingestion paths.
func FromRows(header []string, data [][]string) *Table {
	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var cols []ColumnSpec
	var colIdx []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		values := make([]string, 0, len(data))
		for _, row := range data {
			values = append(values, cell(row, i))
		}
		cols = append(cols, ColumnSpec{Name: name, Type: inferType(name, values)})
		colIdx = append(colIdx, i)
	}

	rows := make([]Row, 0, len(data))
	for _, r := range data {
		row := make(Row, len(cols))
		for j, spec := range cols {
			row[j] = normalize(cell(r, colIdx[j]), spec.Type)
		}
		rows = append(rows, row)
	}
	return &Table{Columns: cols, Rows: rows}
}

// inferType applies header keyword overrides first, then samples values.
func inferType(name string, values []string) ColumnType {
	low := strings.ToLower(name)
	switch {
	case strings.Contains(low, "harga"):
		return TypeCurrency
	case strings.Contains(low, "tanggal"):
		return TypeDate
	case low == "tinggi" || low == "berat" || strings.Contains(low, "jumlah"):
		return TypeNumber
	}
	return detectType(values)
}

// detectType classifies a column from up to the first sampleSize values:
// majority date-like wins, then majority number-like, else text.
func detectType(values []string) ColumnType {
	n := len(values)
	if n > sampleSize {
		n = sampleSize
	}
	if n == 0 {
		return TypeText
	}
	var dates, numbers int
	for _, v := range values[:n] {
		if v == "" {
			continue
		}
		if isDateLike(v) {
			dates++
		} else if _, err := strconv.ParseFloat(v, 64); err == nil {
			numbers++
		}
	}
	if float64(dates)/float64(n) > 0.5 {
		return TypeDate
	}
	if float64(numbers)/float64(n) > 0.5 {
		return TypeNumber
	}
	return TypeText
}

var dateLayouts = []string{
	"2006-01-02", "2006-01-02T15:04:05Z07:00", "02/01/2006", "2006/01/02",
}

func isDateLike(v string) bool {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f > epochSerial && f < maxSerial
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalize converts a raw cell into the tagged value for its column type.
// A value that fails to parse falls back to its raw text form: a malformed
// cell must never block the upload.
func normalize(raw string, ct ColumnType) Value {
	if raw == "" {
		return Blank()
	}
	switch ct {
	case TypeDate:
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			return Date(serialToTime(serial))
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t)
			}
		}
		return Text(raw)
	case TypeCurrency, TypeNumber:
		if n, err := strconv.ParseFloat(stripNonNumeric(raw), 64); err == nil {
			return Number(n)
		}
		return Text(raw)
	default:
		return Text(raw)
	}
}

func serialToTime(serial float64) time.Time {
	return time.Unix(int64((serial-epochSerial)*secondsDay), 0).UTC()
}
