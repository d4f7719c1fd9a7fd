// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// Tests that exercise reactive recomputation bind the record hooks
// themselves. The temporary directory is cleaned up automatically when the
// test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCurrency creates a currency record and returns it.
func CreateTestCurrency(t *testing.T, app *pocketbase.PocketBase, code string, rate float64) *core.Record {
	t.Helper()
	return mustCreate(t, app, "currencies", map[string]any{
		"code": code,
		"name": code,
		"rate": rate,
	})
}

// CreateTestUOM creates a unit-of-measure record and returns it.
func CreateTestUOM(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return mustCreate(t, app, "uoms", map[string]any{"name": name})
}

// CreateTestTemplate creates a product template with the given pricing and
// installation baseline.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, name string, listPrice, installationDays float64) *core.Record {
	t.Helper()
	return mustCreate(t, app, "product_templates", map[string]any{
		"name":              name,
		"list_price":        listPrice,
		"installation_days": installationDays,
	})
}

// CreateTestProduct creates a product variant under a template.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, templateID, name string) *core.Record {
	t.Helper()
	return mustCreate(t, app, "products", map[string]any{
		"template": templateID,
		"name":     name,
	})
}

// CreateTestPricelist creates a pricelist with the given discount policy.
func CreateTestPricelist(t *testing.T, app *pocketbase.PocketBase, name, currencyID, discountPolicy string) *core.Record {
	t.Helper()
	return mustCreate(t, app, "pricelists", map[string]any{
		"name":            name,
		"currency":        currencyID,
		"discount_policy": discountPolicy,
	})
}

// CreateTestRule creates a pricelist rule from raw field values.
func CreateTestRule(t *testing.T, app *pocketbase.PocketBase, pricelistID string, fields map[string]any) *core.Record {
	t.Helper()
	all := map[string]any{
		"pricelist":     pricelistID,
		"applied_on":    "all",
		"compute_price": "fixed",
	}
	for k, v := range fields {
		all[k] = v
	}
	return mustCreate(t, app, "pricelist_rules", all)
}

// CreateTestBOM creates a BOM header directly through the record API.
func CreateTestBOM(t *testing.T, app *pocketbase.PocketBase, fields map[string]any) *core.Record {
	t.Helper()
	all := map[string]any{"type": "normal"}
	for k, v := range fields {
		all[k] = v
	}
	return mustCreate(t, app, "boms", all)
}

// CreateTestBOMLine creates a BOM line. Derived fields are only filled
// when the record hooks are bound on the app.
func CreateTestBOMLine(t *testing.T, app *pocketbase.PocketBase, bomID, productID string, qty float64) *core.Record {
	t.Helper()
	return mustCreate(t, app, "bom_lines", map[string]any{
		"bom":      bomID,
		"product":  productID,
		"quantity": qty,
	})
}

// CreateTestBOMOperation creates a routing step on the BOM.
func CreateTestBOMOperation(t *testing.T, app *pocketbase.PocketBase, bomID string, fields map[string]any) *core.Record {
	t.Helper()
	all := map[string]any{"bom": bomID, "name": "Assemble"}
	for k, v := range fields {
		all[k] = v
	}
	return mustCreate(t, app, "bom_operations", all)
}

// CreateTestBOMByproduct creates a byproduct on the BOM.
func CreateTestBOMByproduct(t *testing.T, app *pocketbase.PocketBase, bomID string, fields map[string]any) *core.Record {
	t.Helper()
	all := map[string]any{"bom": bomID}
	for k, v := range fields {
		all[k] = v
	}
	return mustCreate(t, app, "bom_byproducts", all)
}

// CreateTestUser creates a users record with the given group memberships.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, name string, groups []string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("groups", groups)
	record.Set("email", name+"@example.com")
	record.Set("password", "test-password-123")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}
	return record
}

func mustCreate(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}
	return record
}
