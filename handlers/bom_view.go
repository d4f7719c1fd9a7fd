package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

// HandleBOMView returns a handler serving a BOM header with its lines.
// Each line carries the permission-gated price_visible flag, evaluated for
// the acting user on every request.
func HandleBOMView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		bom, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_view: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		lines, err := app.FindRecordsByFilter("bom_lines", "bom = {:bom}", "sort_order", 0, 0, map[string]any{"bom": bomID})
		if err != nil {
			log.Printf("bom_view: lines for %s: %v", bomID, err)
			return e.String(http.StatusInternalServerError, "Could not load lines")
		}

		visible := services.LineVisibility(GetActingUser(e.Request))

		lineItems := make([]map[string]any, 0, len(lines))
		for _, line := range lines {
			lineItems = append(lineItems, lineJSON(line, visible))
		}

		resp := bomJSON(bom)
		resp["lines"] = lineItems
		return e.JSON(http.StatusOK, resp)
	}
}

func lineJSON(line *core.Record, priceVisible bool) map[string]any {
	return map[string]any{
		"id":                          line.Id,
		"bom":                         line.GetString("bom"),
		"product":                     line.GetString("product"),
		"quantity":                    line.GetFloat("quantity"),
		"uom":                         line.GetString("uom"),
		"last_price":                  line.GetFloat("last_price"),
		"estimated_installation_days": line.GetFloat("estimated_installation_days"),
		"pricelist_rule":              line.GetString("pricelist_rule"),
		"unit_price":                  line.GetFloat("unit_price"),
		"price_subtotal":              line.GetFloat("price_subtotal"),
		"price_visible":               priceVisible,
	}
}
