package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/ordercalc/pkg/application/dto"
)

const (
	ordersSheet  = "Order Lines"
	targetsSheet = "Targets"
)

var xlsxHeaders = []string{"ID", "Name", "Required", "In Stock", "To Order", "Unresolved"}

// NewWorkbook builds the order list workbook: one sheet of order lines and,
// when targets are known, one sheet listing them
func NewWorkbook(result *dto.ResolutionResult, config Config) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ordersSheet, cell, h)
		f.SetCellStyle(ordersSheet, cell, cell, headerStyle)
	}

	for i, line := range result.OrderLines {
		row := i + 2
		f.SetCellValue(ordersSheet, fmt.Sprintf("A%d", row), int64(line.PartID))
		f.SetCellValue(ordersSheet, fmt.Sprintf("B%d", row), line.Name)
		f.SetCellValue(ordersSheet, fmt.Sprintf("C%d", row), line.Required.InexactFloat64())
		f.SetCellValue(ordersSheet, fmt.Sprintf("D%d", row), line.InStock.InexactFloat64())
		f.SetCellValue(ordersSheet, fmt.Sprintf("E%d", row), line.ToOrder.InexactFloat64())
		f.SetCellValue(ordersSheet, fmt.Sprintf("F%d", row), line.Unresolved)
	}

	widths := []float64{10, 40, 14, 14, 14, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(ordersSheet, col, col, w)
	}

	if len(config.Targets) > 0 {
		if _, err := f.NewSheet(targetsSheet); err != nil {
			return nil, fmt.Errorf("failed to create targets sheet: %w", err)
		}
		f.SetCellValue(targetsSheet, "A1", "Part ID")
		f.SetCellValue(targetsSheet, "B1", "Quantity")
		f.SetCellStyle(targetsSheet, "A1", "B1", headerStyle)
		for i, target := range config.Targets {
			row := i + 2
			f.SetCellValue(targetsSheet, fmt.Sprintf("A%d", row), int64(target.PartID))
			f.SetCellValue(targetsSheet, fmt.Sprintf("B%d", row), target.Quantity.InexactFloat64())
		}
	}

	return f, nil
}

func writeXLSX(w io.Writer, result *dto.ResolutionResult, config Config) error {
	f, err := NewWorkbook(result, config)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}
