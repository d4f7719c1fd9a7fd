// Package hooks wires the BOM derivation rules into the record lifecycle:
// line-level derived fields recompute before a line is saved, header totals
// roll up after any line mutation, and the single-active-BOM invariant is
// enforced on header creation.
package hooks

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

// Bind registers all record hooks on the app.
func Bind(app *pocketbase.PocketBase) {
	bindLineDerivation(app)
	bindHeaderTotals(app)
	bindHeaderDefaults(app)
}

// bindLineDerivation recomputes a line's pricelist rule, unit price,
// subtotal and installation estimate whenever the line is created or its
// inputs change. Runs inside the save transaction.
func bindLineDerivation(app *pocketbase.PocketBase) {
	recompute := func(e *core.RecordEvent) error {
		bom, err := e.App.FindRecordById("boms", e.Record.GetString("bom"))
		if err != nil {
			return fmt.Errorf("line %s references unknown bom: %w", e.Record.Id, err)
		}
		if err := services.RecomputeLine(e.App, bom, e.Record, time.Now()); err != nil {
			return fmt.Errorf("recompute line %s: %w", e.Record.Id, err)
		}
		return e.Next()
	}

	app.OnRecordCreate("bom_lines").BindFunc(recompute)
	app.OnRecordUpdate("bom_lines").BindFunc(func(e *core.RecordEvent) error {
		if !lineInputsChanged(e.App, e.Record) {
			return e.Next()
		}
		return recompute(e)
	})
}

// lineInputsChanged reports whether any field the derivation depends on
// differs from the stored record. Original() is only populated on records
// loaded from the database; for an instance still held from its own create
// the snapshot is blank, so compare against the stored row instead.
func lineInputsChanged(app core.App, line *core.Record) bool {
	original := line.Original()
	if original.GetString("bom") == "" {
		stored, err := app.FindRecordById("bom_lines", line.Id)
		if err != nil {
			return true
		}
		original = stored
	}
	return line.GetString("product") != original.GetString("product") ||
		line.GetFloat("quantity") != original.GetFloat("quantity") ||
		line.GetString("uom") != original.GetString("uom")
}

// bindHeaderTotals rolls line aggregates up onto the header after any line
// mutation has been committed.
func bindHeaderTotals(app *pocketbase.PocketBase) {
	rollup := func(e *core.RecordEvent) error {
		bomID := e.Record.GetString("bom")
		if bomID != "" {
			if err := services.RecomputeBOMTotals(e.App, bomID); err != nil {
				log.Printf("hooks: totals rollup for bom %s: %v", bomID, err)
			}
		}
		return e.Next()
	}

	app.OnRecordAfterCreateSuccess("bom_lines").BindFunc(rollup)
	app.OnRecordAfterUpdateSuccess("bom_lines").BindFunc(rollup)
	app.OnRecordAfterDeleteSuccess("bom_lines").BindFunc(rollup)
}

// bindHeaderDefaults enforces the single-active invariant on create and
// keeps the cached currency in line with the selected pricelist.
func bindHeaderDefaults(app *pocketbase.PocketBase) {
	app.OnRecordCreate("boms").BindFunc(func(e *core.RecordEvent) error {
		// Flip any currently active BOM for the same product/type before
		// this one is inserted as active. e.App is transaction-bound, so
		// the flip and the insert commit or roll back together.
		if err := services.DeactivateSiblings(e.App, e.Record); err != nil {
			return err
		}
		e.Record.Set("worked", true)

		if e.Record.GetString("pricing_mode") == "" {
			e.Record.Set("pricing_mode", "square_meter")
		}
		deriveCurrency(e.App, e.Record)

		return e.Next()
	})

	app.OnRecordUpdate("boms").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetString("pricelist") != e.Record.Original().GetString("pricelist") {
			deriveCurrency(e.App, e.Record)
		}
		return e.Next()
	})
}

// deriveCurrency caches the pricelist currency on the header.
func deriveCurrency(app core.App, record *core.Record) {
	pricelistID := record.GetString("pricelist")
	if pricelistID == "" {
		record.Set("currency", "")
		return
	}
	pricelist, err := app.FindRecordById("pricelists", pricelistID)
	if err != nil {
		log.Printf("hooks: pricelist %s not found for bom currency: %v", pricelistID, err)
		return
	}
	record.Set("currency", pricelist.GetString("currency"))
}
