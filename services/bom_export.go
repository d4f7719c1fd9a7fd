package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

var bomExportHeaders = []string{
	"#", "Product", "Qty", "UOM", "Unit Price", "Subtotal", "Install Days",
}

// GenerateBOMExcel renders a BOM header with its lines into an xlsx
// workbook and returns the file contents plus a suggested filename.
func GenerateBOMExcel(app core.App, bom *core.Record) ([]byte, string, error) {
	lines, err := app.FindRecordsByFilter("bom_lines", "bom = {:bom}", "sort_order", 0, 0, map[string]any{"bom": bom.Id})
	if err != nil {
		return nil, "", fmt.Errorf("load lines: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := bom.GetString("code")
	if sheetName == "" {
		sheetName = "BOM"
	}
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, "", fmt.Errorf("set sheet name: %w", err)
	}

	widths := []float64{6, 40, 10, 8, 14, 14, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, "", fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create header style: %w", err)
	}

	for i, h := range bomExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, "", fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, "", fmt.Errorf("style header %s: %w", cell, err)
		}
	}

	for i, line := range lines {
		row := i + 2

		productName := ""
		if pid := line.GetString("product"); pid != "" {
			if product, err := app.FindRecordById("products", pid); err == nil {
				productName = product.GetString("name")
			}
		}
		uomName := ""
		if uid := line.GetString("uom"); uid != "" {
			if uom, err := app.FindRecordById("uoms", uid); err == nil {
				uomName = uom.GetString("name")
			}
		}

		values := []any{
			i + 1,
			productName,
			line.GetFloat("quantity"),
			uomName,
			line.GetFloat("unit_price"),
			line.GetFloat("price_subtotal"),
			line.GetFloat("estimated_installation_days"),
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v); err != nil {
				return nil, "", fmt.Errorf("set cell row %d: %w", row, err)
			}
		}
	}

	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("create total style: %w", err)
	}
	totalRow := len(lines) + 2
	totalCells := map[string]any{
		fmt.Sprintf("B%d", totalRow): "Total",
		fmt.Sprintf("F%d", totalRow): bom.GetFloat("total_amount"),
		fmt.Sprintf("G%d", totalRow): bom.GetFloat("total_installation_days"),
	}
	for cell, v := range totalCells {
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return nil, "", fmt.Errorf("set total cell %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("G%d", totalRow), totalStyle); err != nil {
		return nil, "", fmt.Errorf("style total row: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("BOM_%s.xlsx", sheetName)
	return buf.Bytes(), filename, nil
}
