package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of an exported workbook.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Write renders the sheets, in order, into an .xlsx workbook.
func Write(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, err
		}

		if err := writeRow(f, sheet.Name, 1, sheet.Headers); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
			return nil, err
		}
		for j, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, j+2, row); err != nil {
				return nil, err
			}
		}
		if len(sheet.Headers) > 0 {
			last, _ := excelize.ColumnNumberToName(len(sheet.Headers))
			_ = f.SetColWidth(sheet.Name, "A", last, 18)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
