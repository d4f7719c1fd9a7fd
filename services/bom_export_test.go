package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"bompricing/testhelpers"
)

func TestGenerateBOMExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	uom := testhelpers.CreateTestUOM(t, app, "m2")
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")
	pl := testhelpers.CreateTestPricelist(t, app, "Retail", inr.Id, "with_discount")

	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": pl.Id, "currency": inr.Id, "code": "B500",
	})
	line := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 2)
	line.Set("uom", uom.Id)
	if err := RecomputeLine(app, bom, line, time.Now()); err != nil {
		t.Fatalf("RecomputeLine() error: %v", err)
	}
	if err := app.Save(line); err != nil {
		t.Fatalf("failed to save line: %v", err)
	}
	if err := RecomputeBOMTotals(app, bom.Id); err != nil {
		t.Fatalf("RecomputeBOMTotals() error: %v", err)
	}
	bom, err := app.FindRecordById("boms", bom.Id)
	if err != nil {
		t.Fatalf("failed to reload bom: %v", err)
	}

	data, filename, err := GenerateBOMExcel(app, bom)
	if err != nil {
		t.Fatalf("GenerateBOMExcel() error: %v", err)
	}
	if filename != "BOM_B500.xlsx" {
		t.Errorf("filename = %q, want %q", filename, "BOM_B500.xlsx")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "B500" {
		t.Errorf("sheet name = %q, want %q", got, "B500")
	}

	checks := map[string]string{
		"A1": "#",
		"B1": "Product",
		"C1": "Qty",
		"B2": "Panel 60x60",
		"C2": "2",
		"D2": "m2",
		"E2": "100",
		"F2": "200",
		"B3": "Total",
		"F3": "200",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("B500", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}
}

func TestGenerateBOMExcel_NoCode(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	bom := testhelpers.CreateTestBOM(t, app, map[string]any{"template": tpl.Id})

	data, filename, err := GenerateBOMExcel(app, bom)
	if err != nil {
		t.Fatalf("GenerateBOMExcel() error: %v", err)
	}
	if filename != "BOM_BOM.xlsx" {
		t.Errorf("filename = %q, want %q", filename, "BOM_BOM.xlsx")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	// Empty BOM still renders headers and a zeroed totals row.
	if got, _ := f.GetCellValue("BOM", "B2"); got != "Total" {
		t.Errorf("B2 = %q, want the totals row", got)
	}
}
