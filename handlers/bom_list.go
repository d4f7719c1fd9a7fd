package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

// HandleBOMList returns a handler listing BOM headers, newest first.
// With ?just_worked=1 only the currently active BOMs are returned.
func HandleBOMList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		filter := "id != ''"
		if e.Request.URL.Query().Get("just_worked") == "1" {
			filter = "worked = true"
		}

		records, err := app.FindRecordsByFilter("boms", filter, "-created", 0, 0)
		if err != nil {
			log.Printf("bom_list: %v", err)
			return e.String(http.StatusInternalServerError, "Could not list BOMs")
		}

		items := make([]map[string]any, 0, len(records))
		for _, record := range records {
			items = append(items, bomJSON(record))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleBOMFind returns a handler performing the product-scoped BOM lookup
// used by manufacturing flows. Under ?just_worked=1 the lookup predicate is
// additionally restricted to the active BOM.
func HandleBOMFind(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()

		record, err := services.FindBOM(app, query.Get("product"), query.Get("template"),
			query.Get("type"), query.Get("company"), query.Get("just_worked") == "1")
		if err != nil {
			log.Printf("bom_find: %v", err)
			return e.String(http.StatusInternalServerError, "Could not look up BOM")
		}
		if record == nil {
			return e.String(http.StatusNotFound, "No matching BOM")
		}

		return e.JSON(http.StatusOK, bomJSON(record))
	}
}
