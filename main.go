package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/collections"
	"bompricing/handlers"
	"bompricing/hooks"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	// Derived-field recomputation and the single-active-BOM invariant
	hooks.Bind(app)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Resolve the acting identity for permission-gated computations
		se.Router.BindFunc(handlers.ActingUserMiddleware(app))

		// ── BOM headers ──────────────────────────────────────────
		se.Router.GET("/boms", handlers.HandleBOMList(app))
		se.Router.GET("/boms/find", handlers.HandleBOMFind(app))
		se.Router.POST("/boms", handlers.HandleBOMCreate(app))
		se.Router.GET("/boms/{id}", handlers.HandleBOMView(app))
		se.Router.PATCH("/boms/{id}", handlers.HandleBOMUpdate(app))
		se.Router.DELETE("/boms/{id}", handlers.HandleBOMDelete(app))

		// ── BOM lines ────────────────────────────────────────────
		se.Router.POST("/boms/{id}/lines", handlers.HandleBOMLineAdd(app))
		se.Router.PATCH("/boms/{id}/lines/{lineId}", handlers.HandleBOMLineUpdate(app))
		se.Router.DELETE("/boms/{id}/lines/{lineId}", handlers.HandleBOMLineDelete(app))

		// ── Interactive-edit change notifications ────────────────
		se.Router.POST("/boms/{id}/onchange/template", handlers.HandleBOMTemplateChange(app))
		se.Router.POST("/boms/{id}/onchange/pricelist", handlers.HandleBOMPricelistChange(app))

		// ── Spreadsheet exchange ─────────────────────────────────
		se.Router.GET("/boms/{id}/export", handlers.HandleBOMExport(app))
		se.Router.POST("/boms/{id}/import", handlers.HandleBOMImport(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
