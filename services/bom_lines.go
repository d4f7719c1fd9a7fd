package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ResolveLineRule resolves the pricelist rule for a BOM line. The result is
// nil (no error) when the line has no product or the owning BOM carries no
// pricelist.
func ResolveLineRule(app core.App, bom, line *core.Record, date time.Time) (*core.Record, error) {
	productID := line.GetString("product")
	pricelistID := bom.GetString("pricelist")
	if productID == "" || pricelistID == "" {
		return nil, nil
	}

	product, err := app.FindRecordById("products", productID)
	if err != nil {
		return nil, fmt.Errorf("find line product %s: %w", productID, err)
	}

	qty := line.GetFloat("quantity")
	if qty == 0 {
		qty = 1
	}

	return BestRule(app, pricelistID, product, qty, line.GetString("uom"), date)
}

// ComputeLineUnitPrice derives a line's unit price: zero without a product
// or pricelist, otherwise the discount-policy-aware display price converted
// with the "sale" tax treatment into the line's currency.
func ComputeLineUnitPrice(app core.App, bom, line, rule *core.Record, date time.Time) (float64, error) {
	productID := line.GetString("product")
	pricelistID := bom.GetString("pricelist")
	if productID == "" || pricelistID == "" {
		return 0, nil
	}

	product, err := app.FindRecordById("products", productID)
	if err != nil {
		return 0, fmt.Errorf("find line product %s: %w", productID, err)
	}
	pricelist, err := app.FindRecordById("pricelists", pricelistID)
	if err != nil {
		return 0, fmt.Errorf("find pricelist %s: %w", pricelistID, err)
	}

	currencyID := bom.GetString("currency")
	if currencyID == "" {
		currencyID = pricelist.GetString("currency")
	}

	qty := line.GetFloat("quantity")
	if qty == 0 {
		qty = 1
	}
	uomID := line.GetString("uom")

	var pricelistPrice float64
	if rule != nil {
		pricelistPrice, err = ComputePrice(app, rule, product, qty, date, currencyID)
	} else {
		pricelistPrice, err = PricelistPrice(app, pricelistID, product, qty, uomID, date)
		if err == nil {
			pricelistPrice, err = ConvertAmount(app, pricelistPrice, pricelist.GetString("currency"), currencyID)
		}
	}
	if err != nil {
		return 0, err
	}

	displayPrice := pricelistPrice
	if pricelist.GetString("discount_policy") == PolicyWithoutDiscount && rule != nil {
		basePrice, err := PriceBeforeDiscount(app, rule, product, qty, uomID, date, currencyID)
		if err != nil {
			return 0, err
		}
		displayPrice = DisplayPrice(PolicyWithoutDiscount, true, basePrice, pricelistPrice)
	}

	return TaxIncludedUnitPrice(app, product, currencyID, displayPrice, currencyID)
}

// RecomputeLine refreshes every derived field on a BOM line in place:
// pricelist rule, unit price, subtotal and the installation estimate.
// The caller is responsible for saving the record.
func RecomputeLine(app core.App, bom, line *core.Record, date time.Time) error {
	rule, err := ResolveLineRule(app, bom, line, date)
	if err != nil {
		return err
	}
	if rule != nil {
		line.Set("pricelist_rule", rule.Id)
	} else {
		line.Set("pricelist_rule", "")
	}

	unitPrice, err := ComputeLineUnitPrice(app, bom, line, rule, date)
	if err != nil {
		return err
	}
	line.Set("unit_price", unitPrice)
	line.Set("price_subtotal", CalcPriceSubtotal(unitPrice, line.GetFloat("quantity")))

	if productID := line.GetString("product"); productID != "" {
		product, err := app.FindRecordById("products", productID)
		if err != nil {
			return fmt.Errorf("find line product %s: %w", productID, err)
		}
		template, err := app.FindRecordById("product_templates", product.GetString("template"))
		if err != nil {
			return fmt.Errorf("find template for product %s: %w", productID, err)
		}
		line.Set("estimated_installation_days",
			CalcInstallationDays(template.GetFloat("installation_days"), line.GetFloat("quantity")))
	} else {
		line.Set("estimated_installation_days", 0)
	}

	return nil
}
