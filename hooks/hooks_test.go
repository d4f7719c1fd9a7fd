package hooks

import (
	"testing"

	"github.com/pocketbase/pocketbase"

	"bompricing/testhelpers"
)

func newHookedApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	Bind(app)
	return app
}

func TestLineDerivation_OnCreate(t *testing.T) {
	app := newHookedApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0.5)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")
	pl := testhelpers.CreateTestPricelist(t, app, "Retail", inr.Id, "with_discount")
	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": pl.Id,
	})

	line := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 2)

	if got := line.GetFloat("unit_price"); got != 100 {
		t.Errorf("unit_price = %v, want list price 100", got)
	}
	if got := line.GetFloat("price_subtotal"); got != 200 {
		t.Errorf("price_subtotal = %v, want 200", got)
	}
	if got := line.GetFloat("estimated_installation_days"); got != 1 {
		t.Errorf("estimated_installation_days = %v, want 1", got)
	}
}

func TestLineDerivation_OnQuantityUpdate(t *testing.T) {
	app := newHookedApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")
	pl := testhelpers.CreateTestPricelist(t, app, "Retail", inr.Id, "with_discount")
	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": pl.Id,
	})
	line := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 2)

	line.Set("quantity", 5)
	if err := app.Save(line); err != nil {
		t.Fatalf("failed to save line: %v", err)
	}
	if got := line.GetFloat("price_subtotal"); got != 500 {
		t.Errorf("price_subtotal = %v after quantity change, want 500", got)
	}
}

func TestLineDerivation_UnrelatedUpdateSkipsRecompute(t *testing.T) {
	app := newHookedApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")
	pl := testhelpers.CreateTestPricelist(t, app, "Retail", inr.Id, "with_discount")
	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": pl.Id,
	})
	line := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 2)

	// Manually stored value survives a save that touches no derivation input.
	line.Set("unit_price", 77)
	line.Set("sort_order", 9)
	if err := app.Save(line); err != nil {
		t.Fatalf("failed to save line: %v", err)
	}
	if got := line.GetFloat("unit_price"); got != 77 {
		t.Errorf("unit_price = %v, want untouched manual value 77", got)
	}
}

func TestLineDerivation_ReloadedUnrelatedUpdateSkipsRecompute(t *testing.T) {
	app := newHookedApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")
	pl := testhelpers.CreateTestPricelist(t, app, "Retail", inr.Id, "with_discount")
	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": pl.Id,
	})
	created := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 2)

	line, err := app.FindRecordById("bom_lines", created.Id)
	if err != nil {
		t.Fatalf("failed to reload line: %v", err)
	}
	line.Set("unit_price", 77)
	line.Set("sort_order", 9)
	if err := app.Save(line); err != nil {
		t.Fatalf("failed to save line: %v", err)
	}
	if got := line.GetFloat("unit_price"); got != 77 {
		t.Errorf("unit_price = %v, want untouched manual value 77", got)
	}
}

func TestHeaderTotals_RollupAcrossLineLifecycle(t *testing.T) {
	app := newHookedApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0.5)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")
	pl := testhelpers.CreateTestPricelist(t, app, "Retail", inr.Id, "with_discount")
	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": pl.Id,
	})

	line1 := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 2)
	line2 := testhelpers.CreateTestBOMLine(t, app, bom.Id, product.Id, 3)

	reload := func() (float64, float64) {
		updated, err := app.FindRecordById("boms", bom.Id)
		if err != nil {
			t.Fatalf("failed to reload bom: %v", err)
		}
		return updated.GetFloat("total_amount"), updated.GetFloat("total_installation_days")
	}

	amount, days := reload()
	if amount != 500 {
		t.Errorf("total_amount = %v after create, want 500", amount)
	}
	if days != 2.5 {
		t.Errorf("total_installation_days = %v after create, want 2.5", days)
	}

	line1.Set("quantity", 4)
	if err := app.Save(line1); err != nil {
		t.Fatalf("failed to save line: %v", err)
	}
	amount, _ = reload()
	if amount != 700 {
		t.Errorf("total_amount = %v after update, want 700", amount)
	}

	if err := app.Delete(line2); err != nil {
		t.Fatalf("failed to delete line: %v", err)
	}
	amount, days = reload()
	if amount != 400 {
		t.Errorf("total_amount = %v after delete, want 400", amount)
	}
	if days != 2 {
		t.Errorf("total_installation_days = %v after delete, want 2", days)
	}
}

func TestHeaderDefaults_WorkedFlipOnDirectCreate(t *testing.T) {
	app := newHookedApp(t)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")

	first := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "product": product.Id,
	})
	if !first.GetBool("worked") {
		t.Fatal("directly created BOM should be active")
	}

	second := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "product": product.Id,
	})
	if !second.GetBool("worked") {
		t.Error("newest BOM should be active")
	}

	reloaded, err := app.FindRecordById("boms", first.Id)
	if err != nil {
		t.Fatalf("failed to reload first bom: %v", err)
	}
	if reloaded.GetBool("worked") {
		t.Error("previous BOM should have been deactivated")
	}
}

func TestHeaderDefaults_PricingModeDefault(t *testing.T) {
	app := newHookedApp(t)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)

	bom := testhelpers.CreateTestBOM(t, app, map[string]any{"template": tpl.Id})
	if got := bom.GetString("pricing_mode"); got != "square_meter" {
		t.Errorf("pricing_mode = %q, want default %q", got, "square_meter")
	}
}

func TestHeaderDefaults_CurrencyFollowsPricelist(t *testing.T) {
	app := newHookedApp(t)
	inr := testhelpers.CreateTestCurrency(t, app, "INR", 1)
	usd := testhelpers.CreateTestCurrency(t, app, "USD", 0.012)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	plINR := testhelpers.CreateTestPricelist(t, app, "Domestic", inr.Id, "with_discount")
	plUSD := testhelpers.CreateTestPricelist(t, app, "Export", usd.Id, "with_discount")

	bom := testhelpers.CreateTestBOM(t, app, map[string]any{
		"template": tpl.Id, "pricelist": plINR.Id,
	})
	if got := bom.GetString("currency"); got != inr.Id {
		t.Errorf("currency = %q on create, want %q", got, inr.Id)
	}

	bom.Set("pricelist", plUSD.Id)
	if err := app.Save(bom); err != nil {
		t.Fatalf("failed to save bom: %v", err)
	}
	if got := bom.GetString("currency"); got != usd.Id {
		t.Errorf("currency = %q after pricelist switch, want %q", got, usd.Id)
	}
}
