package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

type bomLineRequest struct {
	Product   string   `json:"product"`
	Quantity  *float64 `json:"quantity"`
	UOM       *string  `json:"uom"`
	LastPrice *float64 `json:"last_price"`
	SortOrder *float64 `json:"sort_order"`
}

// HandleBOMLineAdd returns a handler appending a line to a BOM. Derived
// fields (rule, unit price, subtotal, installation estimate) are computed
// by the line hooks during save, and the header totals roll up afterwards.
func HandleBOMLineAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		if _, err := app.FindRecordById("boms", bomID); err != nil {
			log.Printf("bom_line_add: bom not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		var req bomLineRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			log.Printf("bom_line_add: could not decode body: %v", err)
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		linesCol, err := app.FindCollectionByNameOrId("bom_lines")
		if err != nil {
			log.Printf("bom_line_add: collection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		line := core.NewRecord(linesCol)
		line.Set("bom", bomID)
		line.Set("product", req.Product)
		if req.Quantity != nil {
			line.Set("quantity", *req.Quantity)
		}
		if req.UOM != nil {
			line.Set("uom", *req.UOM)
		}
		if req.LastPrice != nil {
			line.Set("last_price", *req.LastPrice)
		}
		if req.SortOrder != nil {
			line.Set("sort_order", *req.SortOrder)
		}

		if err := app.Save(line); err != nil {
			log.Printf("bom_line_add: save: %v", err)
			return e.String(http.StatusInternalServerError, "Could not save line")
		}

		visible := services.LineVisibility(GetActingUser(e.Request))
		return e.JSON(http.StatusCreated, lineJSON(line, visible))
	}
}

// HandleBOMLineUpdate returns a handler editing a line's input fields.
func HandleBOMLineUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")
		lineID := e.Request.PathValue("lineId")

		line, err := app.FindRecordById("bom_lines", lineID)
		if err != nil {
			log.Printf("bom_line_edit: not found %s: %v", lineID, err)
			return e.String(http.StatusNotFound, "Line not found")
		}
		if line.GetString("bom") != bomID {
			return e.String(http.StatusBadRequest, "Line does not belong to this BOM")
		}

		var req bomLineRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			log.Printf("bom_line_edit: could not decode body: %v", err)
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if req.Product != "" {
			line.Set("product", req.Product)
		}
		if req.Quantity != nil {
			line.Set("quantity", *req.Quantity)
		}
		if req.UOM != nil {
			line.Set("uom", *req.UOM)
		}
		if req.LastPrice != nil {
			line.Set("last_price", *req.LastPrice)
		}
		if req.SortOrder != nil {
			line.Set("sort_order", *req.SortOrder)
		}

		if err := app.Save(line); err != nil {
			log.Printf("bom_line_edit: save %s: %v", lineID, err)
			return e.String(http.StatusInternalServerError, "Could not save line")
		}

		visible := services.LineVisibility(GetActingUser(e.Request))
		return e.JSON(http.StatusOK, lineJSON(line, visible))
	}
}

// HandleBOMLineDelete returns a handler removing a line; the header totals
// refresh through the after-delete hook.
func HandleBOMLineDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")
		lineID := e.Request.PathValue("lineId")

		line, err := app.FindRecordById("bom_lines", lineID)
		if err != nil {
			log.Printf("bom_line_delete: not found %s: %v", lineID, err)
			return e.String(http.StatusNotFound, "Line not found")
		}
		if line.GetString("bom") != bomID {
			return e.String(http.StatusBadRequest, "Line does not belong to this BOM")
		}

		if err := app.Delete(line); err != nil {
			log.Printf("bom_line_delete: %s: %v", lineID, err)
			return e.String(http.StatusInternalServerError, "Could not delete line")
		}

		return e.NoContent(http.StatusNoContent)
	}
}
