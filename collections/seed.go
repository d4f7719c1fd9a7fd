package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type currencyDef struct {
	code string
	name string
	rate float64
}

type templateDef struct {
	name             string
	uom              string
	installationDays float64
	listPrice        float64
	saleTaxPercent   float64
	variants         []string
}

type ruleDef struct {
	appliedOn      string // all | template | product
	template       string
	product        string
	minQuantity    float64
	computePrice   string // fixed | percentage | formula
	fixedPrice     float64
	percentPrice   float64
	base           string // list_price | pricelist
	basePricelist  string
	priceDiscount  float64
	priceSurcharge float64
}

type pricelistDef struct {
	name           string
	currency       string
	discountPolicy string
	rules          []ruleDef
}

// Seed populates demo catalog and pricing data when the database is empty.
// It is idempotent: if any currency already exists, seeding is skipped.
func Seed(app *pocketbase.PocketBase) error {
	existing, err := app.FindRecordsByFilter("currencies", "id != ''", "", 1, 0)
	if err == nil && len(existing) > 0 {
		log.Println("Seed data already present, skipping.")
		return nil
	}

	currencies := []currencyDef{
		{code: "INR", name: "Indian Rupee", rate: 1},
		{code: "USD", name: "US Dollar", rate: 0.012},
		{code: "EUR", name: "Euro", rate: 0.011},
	}

	currencyIDs := map[string]string{}
	for _, cd := range currencies {
		rec, err := seedRecord(app, "currencies", map[string]any{
			"code": cd.code,
			"name": cd.name,
			"rate": cd.rate,
		})
		if err != nil {
			return fmt.Errorf("seed currency %s: %w", cd.code, err)
		}
		currencyIDs[cd.code] = rec.Id
	}

	uomIDs := map[string]string{}
	for _, name := range []string{"Nos", "Sqm", "Kg", "Mtrs", "Set"} {
		rec, err := seedRecord(app, "uoms", map[string]any{"name": name})
		if err != nil {
			return fmt.Errorf("seed uom %s: %w", name, err)
		}
		uomIDs[name] = rec.Id
	}

	templates := []templateDef{
		{
			name: "Modular Kitchen Unit", uom: "Sqm",
			installationDays: 0.5, listPrice: 4200, saleTaxPercent: 18,
			variants: []string{"Modular Kitchen Unit - Standard"},
		},
		{
			name: "Wardrobe Shutter", uom: "Nos",
			installationDays: 0.25, listPrice: 1800, saleTaxPercent: 18,
			variants: []string{"Wardrobe Shutter - Matte", "Wardrobe Shutter - Gloss"},
		},
		{
			name: "Aluminium Profile", uom: "Mtrs",
			installationDays: 0.1, listPrice: 320, saleTaxPercent: 12,
			variants: []string{"Aluminium Profile - 6063"},
		},
	}

	templateIDs := map[string]string{}
	productIDs := map[string]string{}
	for _, td := range templates {
		rec, err := seedRecord(app, "product_templates", map[string]any{
			"name":              td.name,
			"default_uom":       uomIDs[td.uom],
			"installation_days": td.installationDays,
			"list_price":        td.listPrice,
			"sale_tax_percent":  td.saleTaxPercent,
		})
		if err != nil {
			return fmt.Errorf("seed template %s: %w", td.name, err)
		}
		templateIDs[td.name] = rec.Id

		for _, vn := range td.variants {
			vrec, err := seedRecord(app, "products", map[string]any{
				"template": rec.Id,
				"name":     vn,
			})
			if err != nil {
				return fmt.Errorf("seed product %s: %w", vn, err)
			}
			productIDs[vn] = vrec.Id
		}
	}

	pricelists := []pricelistDef{
		{
			name: "Retail INR", currency: "INR", discountPolicy: "without_discount",
			rules: []ruleDef{
				{
					appliedOn: "all", computePrice: "formula", base: "list_price",
					priceDiscount: 10,
				},
				{
					appliedOn: "template", template: "Wardrobe Shutter",
					minQuantity: 10, computePrice: "percentage",
					percentPrice: 20, base: "list_price",
				},
			},
		},
		{
			name: "Trade INR", currency: "INR", discountPolicy: "with_discount",
			rules: []ruleDef{
				{
					appliedOn: "all", computePrice: "formula", base: "pricelist",
					basePricelist: "Retail INR", priceDiscount: 5,
				},
			},
		},
	}

	for _, pd := range pricelists {
		plRec, err := seedRecord(app, "pricelists", map[string]any{
			"name":            pd.name,
			"currency":        currencyIDs[pd.currency],
			"discount_policy": pd.discountPolicy,
		})
		if err != nil {
			return fmt.Errorf("seed pricelist %s: %w", pd.name, err)
		}

		for i, rd := range pd.rules {
			fields := map[string]any{
				"pricelist":       plRec.Id,
				"applied_on":      rd.appliedOn,
				"min_quantity":    rd.minQuantity,
				"compute_price":   rd.computePrice,
				"fixed_price":     rd.fixedPrice,
				"percent_price":   rd.percentPrice,
				"base":            rd.base,
				"price_discount":  rd.priceDiscount,
				"price_surcharge": rd.priceSurcharge,
			}
			if rd.template != "" {
				fields["template"] = templateIDs[rd.template]
			}
			if rd.product != "" {
				fields["product"] = productIDs[rd.product]
			}
			if rd.basePricelist != "" {
				base, err := app.FindRecordsByFilter("pricelists", "name = {:n}", "", 1, 0, map[string]any{"n": rd.basePricelist})
				if err != nil || len(base) == 0 {
					return fmt.Errorf("seed rule %d of %s: base pricelist %q not found", i, pd.name, rd.basePricelist)
				}
				fields["base_pricelist"] = base[0].Id
			}
			if _, err := seedRecord(app, "pricelist_rules", fields); err != nil {
				return fmt.Errorf("seed rule %d of %s: %w", i, pd.name, err)
			}
		}
	}

	log.Println("Seeded demo currencies, catalog and pricelists.")
	return nil
}

func seedRecord(app *pocketbase.PocketBase, collection string, fields map[string]any) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("find collection %q: %w", collection, err)
	}

	rec := core.NewRecord(col)
	for k, v := range fields {
		rec.Set(k, v)
	}
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save %s record: %w", collection, err)
	}
	return rec, nil
}
