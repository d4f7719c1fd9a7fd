package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// RecomputeBOMTotals rolls the line aggregates up onto the BOM header:
// total_amount = SUM(price_subtotal) and total_installation_days =
// SUM(estimated_installation_days). A BOM without lines gets zero totals.
func RecomputeBOMTotals(app core.App, bomID string) error {
	bom, err := app.FindRecordById("boms", bomID)
	if err != nil {
		return fmt.Errorf("find bom %s: %w", bomID, err)
	}

	var totals struct {
		Amount           float64 `db:"amount"`
		InstallationDays float64 `db:"installation_days"`
	}
	err = app.DB().
		NewQuery(`SELECT
			COALESCE(SUM(price_subtotal), 0) AS amount,
			COALESCE(SUM(estimated_installation_days), 0) AS installation_days
			FROM bom_lines WHERE bom = {:bom}`).
		Bind(dbx.Params{"bom": bomID}).
		One(&totals)
	if err != nil {
		return fmt.Errorf("sum lines for bom %s: %w", bomID, err)
	}

	bom.Set("total_amount", totals.Amount)
	bom.Set("total_installation_days", totals.InstallationDays)

	if err := app.Save(bom); err != nil {
		return fmt.Errorf("save bom totals %s: %w", bomID, err)
	}
	return nil
}
