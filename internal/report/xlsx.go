package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Register"

// RenderXLSX returns r as a single-sheet workbook.
func RenderXLSX(r Register) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	if err := set(1, 1, Title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}

	row := 3
	for _, kv := range header(r) {
		if err := set(1, row, kv[0]); err != nil {
			return nil, err
		}
		if err := set(2, row, kv[1]); err != nil {
			return nil, err
		}
		row++
	}
	if err := f.SetCellStyle(sheetName, "A3", fmt.Sprintf("A%d", row-1), bold); err != nil {
		return nil, err
	}
	row++

	if len(r.Rows) == 0 {
		if err := set(1, row, EmptyMessage); err != nil {
			return nil, err
		}
	} else {
		if err := set(1, row, "Student ID"); err != nil {
			return nil, err
		}
		if err := set(2, row, "Name"); err != nil {
			return nil, err
		}
		head := fmt.Sprintf("A%d", row)
		if err := f.SetCellStyle(sheetName, head, fmt.Sprintf("B%d", row), bold); err != nil {
			return nil, err
		}
		for _, student := range r.Rows {
			row++
			if err := set(1, row, student.StudentNumber); err != nil {
				return nil, err
			}
			if err := set(2, row, student.Name); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
