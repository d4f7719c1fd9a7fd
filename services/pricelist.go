package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// BestRule resolves the most specific pricelist rule matching the given
// product, quantity and date. Specificity order is product > template > all;
// among equally specific rules the highest satisfied min_quantity wins.
// A nil rule with a nil error means no rule matched.
func BestRule(app core.App, pricelistID string, product *core.Record, qty float64, uomID string, date time.Time) (*core.Record, error) {
	if pricelistID == "" || product == nil {
		return nil, nil
	}

	rules, err := app.FindRecordsByFilter(
		"pricelist_rules",
		"pricelist = {:pl}",
		"-min_quantity",
		0, 0,
		map[string]any{"pl": pricelistID},
	)
	if err != nil {
		return nil, fmt.Errorf("load rules for pricelist %s: %w", pricelistID, err)
	}

	var best *core.Record
	bestRank := -1
	for _, rule := range rules {
		rank, ok := ruleMatch(rule, product, qty, date)
		if !ok {
			continue
		}
		// Rules arrive sorted by min_quantity descending, so the first
		// match at a given rank already has the highest quantity break.
		if rank > bestRank {
			best = rule
			bestRank = rank
		}
	}

	return best, nil
}

// ruleMatch reports whether a rule applies and how specific it is
// (2 = product, 1 = template, 0 = catalog-wide).
func ruleMatch(rule, product *core.Record, qty float64, date time.Time) (int, bool) {
	if min := rule.GetFloat("min_quantity"); min > 0 && qty < min {
		return 0, false
	}

	if start := rule.GetDateTime("date_start"); !start.IsZero() && date.Before(start.Time()) {
		return 0, false
	}
	if end := rule.GetDateTime("date_end"); !end.IsZero() && date.After(end.Time()) {
		return 0, false
	}

	switch rule.GetString("applied_on") {
	case "product":
		if rule.GetString("product") == product.Id {
			return 2, true
		}
	case "template":
		if rule.GetString("template") == product.GetString("template") {
			return 1, true
		}
	case "all":
		return 0, true
	}
	return 0, false
}

// ComputePrice applies a resolved rule to the product/quantity and returns
// the price in the target currency.
func ComputePrice(app core.App, rule, product *core.Record, qty float64, date time.Time, targetCurrencyID string) (float64, error) {
	ruleCurrencyID, err := pricelistCurrency(app, rule.GetString("pricelist"))
	if err != nil {
		return 0, err
	}

	base, err := rulePriceBase(app, rule, product, qty, date, ruleCurrencyID)
	if err != nil {
		return 0, err
	}

	var price float64
	switch rule.GetString("compute_price") {
	case "fixed":
		price = rule.GetFloat("fixed_price")
	case "percentage":
		price = base * (1 - rule.GetFloat("percent_price")/100)
	case "formula":
		price = base*(1-rule.GetFloat("price_discount")/100) + rule.GetFloat("price_surcharge")
	default:
		price = base
	}

	return ConvertAmount(app, price, ruleCurrencyID, targetCurrencyID)
}

// ComputeBasePrice returns the price a rule starts from before applying its
// discount, in the target currency.
func ComputeBasePrice(app core.App, rule, product *core.Record, qty float64, date time.Time, targetCurrencyID string) (float64, error) {
	ruleCurrencyID, err := pricelistCurrency(app, rule.GetString("pricelist"))
	if err != nil {
		return 0, err
	}

	base, err := rulePriceBase(app, rule, product, qty, date, ruleCurrencyID)
	if err != nil {
		return 0, err
	}

	return ConvertAmount(app, base, ruleCurrencyID, targetCurrencyID)
}

// PriceBeforeDiscount finds the lowest-level rule whose pricelist is
// configured to show the discount to the customer, walking base-pricelist
// chains while the referenced pricelist also hides discounts, then computes
// the base price from that final rule.
func PriceBeforeDiscount(app core.App, rule, product *core.Record, qty float64, uomID string, date time.Time, targetCurrencyID string) (float64, error) {
	current := rule

	for current.GetString("base") == "pricelist" && current.GetString("base_pricelist") != "" {
		basePL, err := app.FindRecordById("pricelists", current.GetString("base_pricelist"))
		if err != nil {
			return 0, fmt.Errorf("find base pricelist: %w", err)
		}
		if basePL.GetString("discount_policy") != PolicyWithoutDiscount {
			break
		}

		next, err := BestRule(app, basePL.Id, product, qty, uomID, date)
		if err != nil {
			return 0, err
		}
		if next == nil {
			break
		}
		current = next
	}

	return ComputeBasePrice(app, current, product, qty, date, targetCurrencyID)
}

// PricelistPrice resolves and applies the best rule of a pricelist in one
// step, in the pricelist's own currency. Without a matching rule the
// product's list price (converted) is returned.
func PricelistPrice(app core.App, pricelistID string, product *core.Record, qty float64, uomID string, date time.Time) (float64, error) {
	currencyID, err := pricelistCurrency(app, pricelistID)
	if err != nil {
		return 0, err
	}

	rule, err := BestRule(app, pricelistID, product, qty, uomID, date)
	if err != nil {
		return 0, err
	}
	if rule == nil {
		list, err := productListPrice(app, product)
		if err != nil {
			return 0, err
		}
		// List prices are maintained in the base currency.
		return ConvertAmount(app, list, baseCurrencyID(app), currencyID)
	}

	return ComputePrice(app, rule, product, qty, date, currencyID)
}

// rulePriceBase computes the starting price of a rule in the rule's own
// pricelist currency: either the product list price or the price resolved
// against the referenced base pricelist.
func rulePriceBase(app core.App, rule, product *core.Record, qty float64, date time.Time, ruleCurrencyID string) (float64, error) {
	if rule.GetString("base") == "pricelist" && rule.GetString("base_pricelist") != "" {
		basePLID := rule.GetString("base_pricelist")
		price, err := PricelistPrice(app, basePLID, product, qty, "", date)
		if err != nil {
			return 0, err
		}
		baseCurrency, err := pricelistCurrency(app, basePLID)
		if err != nil {
			return 0, err
		}
		return ConvertAmount(app, price, baseCurrency, ruleCurrencyID)
	}

	list, err := productListPrice(app, product)
	if err != nil {
		return 0, err
	}
	return ConvertAmount(app, list, baseCurrencyID(app), ruleCurrencyID)
}

func productListPrice(app core.App, product *core.Record) (float64, error) {
	template, err := app.FindRecordById("product_templates", product.GetString("template"))
	if err != nil {
		return 0, fmt.Errorf("find template for product %s: %w", product.Id, err)
	}
	return template.GetFloat("list_price") + product.GetFloat("extra_price"), nil
}

func pricelistCurrency(app core.App, pricelistID string) (string, error) {
	pl, err := app.FindRecordById("pricelists", pricelistID)
	if err != nil {
		return "", fmt.Errorf("find pricelist %s: %w", pricelistID, err)
	}
	return pl.GetString("currency"), nil
}

// baseCurrencyID returns the currency with rate 1 (the reference currency
// list prices are maintained in). Falls back to empty, which ConvertAmount
// treats as "no conversion".
func baseCurrencyID(app core.App) string {
	recs, err := app.FindRecordsByFilter("currencies", "rate = 1", "", 1, 0)
	if err != nil || len(recs) == 0 {
		return ""
	}
	return recs[0].Id
}
