package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// TemplateChangePatch is the proposed edit produced when the product
// template on a BOM changes during an interactive edit. Nothing here is
// persisted; the caller applies it to the in-progress form state.
type TemplateChangePatch struct {
	UOM                  string   `json:"uom"`
	ClearProduct         bool     `json:"clear_product"`
	Code                 string   `json:"code,omitempty"`
	ClearLineValues      []string `json:"clear_line_values"`
	ClearOperationValues []string `json:"clear_operation_values"`
	ClearByproductValues []string `json:"clear_byproduct_values"`
}

// BuildTemplateChangePatch computes the follow-up edits for a template
// switch: reset the unit of measure to the template default, drop the
// product reference when it no longer belongs to the template, clear
// attribute-value selections on all line/operation/byproduct collections
// (they must be re-picked against the new template's attribute set), and
// default the code from the creation context when present.
func BuildTemplateChangePatch(app core.App, bom *core.Record, templateID, defaultCode string) (*TemplateChangePatch, error) {
	template, err := app.FindRecordById("product_templates", templateID)
	if err != nil {
		return nil, fmt.Errorf("find template %s: %w", templateID, err)
	}

	patch := &TemplateChangePatch{
		UOM:  template.GetString("default_uom"),
		Code: defaultCode,
	}

	if productID := bom.GetString("product"); productID != "" {
		product, err := app.FindRecordById("products", productID)
		if err != nil {
			return nil, fmt.Errorf("find bom product %s: %w", productID, err)
		}
		if product.GetString("template") != templateID {
			patch.ClearProduct = true
		}
	}

	for _, col := range []struct {
		name   string
		target *[]string
	}{
		{"bom_lines", &patch.ClearLineValues},
		{"bom_operations", &patch.ClearOperationValues},
		{"bom_byproducts", &patch.ClearByproductValues},
	} {
		recs, err := app.FindRecordsByFilter(col.name, "bom = {:bom}", "sort_order", 0, 0, map[string]any{"bom": bom.Id})
		if err != nil {
			return nil, fmt.Errorf("load %s for bom %s: %w", col.name, bom.Id, err)
		}
		for _, rec := range recs {
			if len(rec.GetStringSlice("attribute_values")) > 0 {
				*col.target = append(*col.target, rec.Id)
			}
		}
	}

	return patch, nil
}

// ApplyPricelistChange re-resolves the pricelist rule and re-derives the
// unit price on every line that has a product, so a pricelist switch
// propagates immediately instead of waiting for the next line save.
func ApplyPricelistChange(app core.App, bom *core.Record, date time.Time) error {
	lines, err := app.FindRecordsByFilter("bom_lines", "bom = {:bom}", "sort_order", 0, 0, map[string]any{"bom": bom.Id})
	if err != nil {
		return fmt.Errorf("load lines for bom %s: %w", bom.Id, err)
	}

	for _, line := range lines {
		if line.GetString("product") == "" {
			continue
		}
		if err := RecomputeLine(app, bom, line, date); err != nil {
			return fmt.Errorf("recompute line %s: %w", line.Id, err)
		}
		if err := app.Save(line); err != nil {
			return fmt.Errorf("save line %s: %w", line.Id, err)
		}
	}

	return nil
}
