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

type templateChangeRequest struct {
	Template string `json:"template"`
}

// HandleBOMTemplateChange returns a handler computing the proposed edit for
// a template switch during an interactive BOM edit. Nothing is persisted;
// the response describes the patch the client should apply to its form
// state. The default_name creation-context value may arrive as a query
// parameter and becomes the proposed code.
func HandleBOMTemplateChange(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		bom, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_onchange_template: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		var req templateChangeRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			log.Printf("bom_onchange_template: could not decode body: %v", err)
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Template == "" {
			return e.String(http.StatusBadRequest, "template is required")
		}

		patch, err := services.BuildTemplateChangePatch(app, bom, req.Template,
			e.Request.URL.Query().Get("default_name"))
		if err != nil {
			log.Printf("bom_onchange_template: %v", err)
			return e.String(http.StatusInternalServerError, "Could not compute patch")
		}

		return e.JSON(http.StatusOK, patch)
	}
}

// HandleBOMPricelistChange returns a handler re-resolving every line's rule
// and unit price after a pricelist switch, without waiting for line saves.
func HandleBOMPricelistChange(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		bom, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_onchange_pricelist: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		if err := services.ApplyPricelistChange(app, bom, time.Now()); err != nil {
			log.Printf("bom_onchange_pricelist: %v", err)
			return e.String(http.StatusInternalServerError, "Could not reprice lines")
		}

		refreshed, err := app.FindRecordById("boms", bomID)
		if err != nil {
			return e.String(http.StatusInternalServerError, "Could not reload BOM")
		}
		return e.JSON(http.StatusOK, bomJSON(refreshed))
	}
}
