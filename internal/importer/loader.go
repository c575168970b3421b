package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
	"github.com/jeanthielis/relatorio-retidos/internal/parser"
)

var (
	// ErrEmptyFile the upload has no header row
	ErrEmptyFile = errors.New("arquivo vazio")
	// ErrNoSheets the workbook has no worksheet
	ErrNoSheets = errors.New("planilha sem abas")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// LoadTable reads an upload into a RawTable.
// .csv and .txt files are parsed as delimited text (comma, then semicolon);
// anything else is opened as a workbook. With several sheets, the one whose header
// best matches the required specs is read, the first one on ties or when specs is nil.
func LoadTable(dataset model.Dataset, filename string, r io.Reader, specs []FieldSpec) (*model.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	var (
		headers []string
		records [][]any
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		headers, records, err = readDelimited(data)
	default:
		headers, records, err = readWorkbook(data, recognizerFor(dataset, specs))
	}
	if err != nil {
		return nil, err
	}

	return buildTable(dataset, filename, headers, records), nil
}

// recognizerFor nil when there is nothing to score
func recognizerFor(dataset model.Dataset, specs []FieldSpec) *parser.SheetRecognizer {
	var fields []parser.FieldKeywords
	for _, spec := range specs {
		if spec.Required {
			fields = append(fields, parser.FieldKeywords{Field: string(spec.Field), Keywords: spec.Keywords})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return parser.NewDatasetRecognizer(dataset, fields)
}

// readDelimited parses CSV text, retrying with ';' when ',' fails or yields a single
// column that obviously holds semicolon-separated names.
func readDelimited(data []byte) ([]string, [][]any, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	rows, err := parseDelimited(data, ',')
	if err != nil || looksSemicolonSeparated(rows) {
		semi, semiErr := parseDelimited(data, ';')
		switch {
		case semiErr == nil:
			rows, err = semi, nil
		case err != nil:
			return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
		}
	}

	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}

	records := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make([]any, len(row))
		for i, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			rec[i] = v
		}
		records = append(records, rec)
	}
	inferNumericColumns(records)

	return rows[0], records, nil
}

func parseDelimited(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func looksSemicolonSeparated(rows [][]string) bool {
	return len(rows) > 0 && len(rows[0]) == 1 && strings.Contains(rows[0][0], ";")
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		blank := true
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// inferNumericColumns turns a column into float64 values when every non-empty cell
// is a plain number ("1234.56"), the way spreadsheet tools type CSV columns.
// Locale-formatted text such as "1.234,56" stays a string for the normalizer, but a
// column of dot-grouped integers only ("1.234") is read as plain decimals.
func inferNumericColumns(records [][]any) {
	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	for col := 0; col < width; col++ {
		numeric := true
		seen := false
		for _, rec := range records {
			if col >= len(rec) || rec[col] == nil {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[col].(string)), 64); err != nil {
				numeric = false
				break
			}
		}
		if !numeric || !seen {
			continue
		}
		for _, rec := range records {
			if col >= len(rec) || rec[col] == nil {
				continue
			}
			f, _ := strconv.ParseFloat(strings.TrimSpace(rec[col].(string)), 64)
			rec[col] = f
		}
	}
}

// readWorkbook reads one sheet of an xlsx workbook: the first, or the best match of
// recognizer when it is set.
// Number cells come back as float64 (dates as serials), everything else as text.
func readWorkbook(data []byte, recognizer *parser.SheetRecognizer) ([]string, [][]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoSheets
	}

	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if recognizer != nil && len(sheets) > 1 {
		results := make([]model.SheetRecognition, len(sheets))
		candidates := make([][][]string, len(sheets))
		for i, name := range sheets {
			sheetRows := rows
			if i > 0 {
				if sheetRows, err = f.GetRows(name, excelize.Options{RawCellValue: true}); err != nil {
					return nil, nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
				}
			}
			candidates[i] = sheetRows
			var header []string
			if idx := headerIndex(sheetRows); idx >= 0 {
				header = sheetRows[idx]
			}
			results[i] = recognizer.Recognize(name, header)
		}
		best := parser.Best(results)
		sheet, rows = sheets[best], candidates[best]
	}

	first := headerIndex(rows)
	if first < 0 {
		return nil, nil, ErrEmptyFile
	}

	var records [][]any
	for rowIdx := first + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}
		rec := make([]any, len(row))
		for colIdx, v := range row {
			rec[colIdx] = workbookCell(f, sheet, colIdx, rowIdx, v)
		}
		records = append(records, rec)
	}

	return rows[first], records, nil
}

// headerIndex the header is the first non-blank row, -1 when there is none
func headerIndex(rows [][]string) int {
	for i, row := range rows {
		if !isBlankRow(row) {
			return i
		}
	}
	return -1
}

func workbookCell(f *excelize.File, sheet string, colIdx, rowIdx int, value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return value
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return value
	}
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset {
		if num, err := strconv.ParseFloat(value, 64); err == nil {
			return num
		}
	}
	return value
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func buildTable(dataset model.Dataset, source string, headers []string, records [][]any) *model.RawTable {
	width := len(headers)
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	padded := make([]string, width)
	copy(padded, headers)
	columns := model.UniqueColumns(padded)

	rows := make([]model.RawRow, 0, len(records))
	for _, rec := range records {
		row := make(model.RawRow, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}

	return &model.RawTable{
		Dataset: dataset,
		Source:  source,
		Columns: columns,
		Rows:    rows,
	}
}
