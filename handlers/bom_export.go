package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

// HandleBOMExport returns a handler streaming a BOM as an xlsx download.
func HandleBOMExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		bom, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_export: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		data, filename, err := services.GenerateBOMExcel(app, bom)
		if err != nil {
			log.Printf("bom_export: %s: %v", bomID, err)
			return e.String(http.StatusInternalServerError, "Could not generate export")
		}

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", filename))
		_, err = e.Response.Write(data)
		return err
	}
}

// HandleBOMImport returns a handler importing BOM lines from an uploaded
// xlsx file (multipart field "file").
func HandleBOMImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bomID := e.Request.PathValue("id")

		bom, err := app.FindRecordById("boms", bomID)
		if err != nil {
			log.Printf("bom_import: not found %s: %v", bomID, err)
			return e.String(http.StatusNotFound, "BOM not found")
		}

		file, _, err := e.Request.FormFile("file")
		if err != nil {
			log.Printf("bom_import: no file: %v", err)
			return e.String(http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		result, err := services.ImportBOMLines(app, bom, file)
		if err != nil {
			log.Printf("bom_import: %s: %v", bomID, err)
			return e.String(http.StatusInternalServerError, "Could not import lines")
		}

		return e.JSON(http.StatusOK, result)
	}
}
