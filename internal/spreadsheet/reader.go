package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"ota-reconciliation-backend/internal/services/matching"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read loads the first sheet of an .xlsx workbook, or a .csv file, as an
// untyped table. The first non-blank row is the header row.
func Read(r io.Reader, filename string) (*matching.Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return toTable(filename, rows), nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		if data, err = simplifiedchinese.GB18030.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("failed to decode csv: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

func toTable(name string, rows [][]string) *matching.Table {
	table := &matching.Table{Name: name}

	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return table
	}

	table.Headers = rows[start]
	width := len(table.Headers)
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		if len(row) > width {
			width = len(row)
		}
		table.Rows = append(table.Rows, row)
	}

	for len(table.Headers) < width {
		table.Headers = append(table.Headers, "")
	}
	for i, row := range table.Rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			table.Rows[i] = padded
		}
	}
	return table
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
