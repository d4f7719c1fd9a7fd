package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ImportRowError describes a single rejected spreadsheet row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a line import.
type ImportResult struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ImportBOMLines reads an xlsx upload (columns: product name, quantity,
// uom) and appends lines to the BOM. Products are matched by name; rows
// that do not resolve are reported and skipped. Derived fields are
// recomputed by the line hooks on save.
func ImportBOMLines(app core.App, bom *core.Record, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	result := &ImportResult{}
	if len(rows) < 2 {
		return result, nil
	}

	linesCol, err := app.FindCollectionByNameOrId("bom_lines")
	if err != nil {
		return nil, fmt.Errorf("find bom_lines collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter("bom_lines", "bom = {:bom}", "", 0, 0, map[string]any{"bom": bom.Id})
	if err != nil {
		return nil, fmt.Errorf("count existing lines: %w", err)
	}
	sortOrder := len(existing)

	err = app.RunInTransaction(func(txApp core.App) error {
		for i, row := range rows[1:] { // skip header
			rowNum := i + 2

			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			name := strings.TrimSpace(row[0])

			products, err := txApp.FindRecordsByFilter("products", "name = {:n}", "", 1, 0, map[string]any{"n": name})
			if err != nil || len(products) == 0 {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Message: fmt.Sprintf("product %q not found", name),
				})
				continue
			}
			product := products[0]

			qty := 1.0
			if len(row) > 1 && row[1] != "" {
				if q, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64); err == nil {
					qty = q
				}
			}

			uomID := ""
			if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
				uoms, err := txApp.FindRecordsByFilter("uoms", "name = {:n}", "", 1, 0, map[string]any{"n": strings.TrimSpace(row[2])})
				if err == nil && len(uoms) > 0 {
					uomID = uoms[0].Id
				}
			}
			if uomID == "" {
				if template, err := txApp.FindRecordById("product_templates", product.GetString("template")); err == nil {
					uomID = template.GetString("default_uom")
				}
			}

			sortOrder++
			line := core.NewRecord(linesCol)
			line.Set("bom", bom.Id)
			line.Set("product", product.Id)
			line.Set("quantity", qty)
			line.Set("uom", uomID)
			line.Set("sort_order", sortOrder)

			if err := txApp.Save(line); err != nil {
				return fmt.Errorf("save line from row %d: %w", rowNum, err)
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
