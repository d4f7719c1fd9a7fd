package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

// bomEditableFields are the header fields accepted by PATCH /boms/{id}.
var bomEditableFields = []string{
	"code", "pricelist", "pricing_mode", "quantity", "uom", "product", "type", "company",
}

// HandleBOMUpdate returns a handler applying a partial update to a BOM
// header. Derived fields (currency, totals) refresh through the record
// hooks; they cannot be written directly.
func HandleBOMUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		record, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_edit: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		var patch map[string]any
		if err := json.NewDecoder(e.Request.Body).Decode(&patch); err != nil {
			log.Printf("bom_edit: could not decode body: %v", err)
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		for _, field := range bomEditableFields {
			if val, ok := patch[field]; ok {
				record.Set(field, val)
			}
		}

		pricelistChanged := record.GetString("pricelist") != record.Original().GetString("pricelist")

		if err := app.Save(record); err != nil {
			log.Printf("bom_edit: save %s: %v", bomID, err)
			return e.String(http.StatusInternalServerError, "Could not update BOM")
		}

		// A pricelist switch propagates to line pricing immediately.
		if pricelistChanged {
			if err := services.ApplyPricelistChange(app, record, time.Now()); err != nil {
				log.Printf("bom_edit: pricelist propagation %s: %v", bomID, err)
				return e.String(http.StatusInternalServerError, "Could not reprice lines")
			}
		}

		refreshed, err := app.FindRecordById("boms", bomID)
		if err != nil {
			return e.String(http.StatusInternalServerError, "Could not reload BOM")
		}
		return e.JSON(http.StatusOK, bomJSON(refreshed))
	}
}

// HandleBOMDelete returns a handler removing a BOM header; line cleanup is
// handled by the cascade on the relation.
func HandleBOMDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		record, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_delete: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("bom_delete: %s: %v", bomID, err)
			return e.String(http.StatusInternalServerError, "Could not delete BOM")
		}

		return e.NoContent(http.StatusNoContent)
	}
}
