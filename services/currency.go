package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ConvertAmount converts amount between two currencies using their stored
// rates (units of the currency per one unit of the base currency). Empty or
// identical currency references leave the amount unchanged.
func ConvertAmount(app core.App, amount float64, fromCurrencyID, toCurrencyID string) (float64, error) {
	if fromCurrencyID == "" || toCurrencyID == "" || fromCurrencyID == toCurrencyID {
		return amount, nil
	}

	from, err := app.FindRecordById("currencies", fromCurrencyID)
	if err != nil {
		return 0, fmt.Errorf("find currency %s: %w", fromCurrencyID, err)
	}
	to, err := app.FindRecordById("currencies", toCurrencyID)
	if err != nil {
		return 0, fmt.Errorf("find currency %s: %w", toCurrencyID, err)
	}

	fromRate := from.GetFloat("rate")
	toRate := to.GetFloat("rate")
	if fromRate == 0 {
		return 0, fmt.Errorf("currency %s has no rate", from.GetString("code"))
	}

	return amount / fromRate * toRate, nil
}

// TaxIncludedUnitPrice converts a unit price into the target currency and
// applies the product template's sale tax percentage (the "sale" tax
// treatment: quoted prices include tax).
func TaxIncludedUnitPrice(app core.App, product *core.Record, targetCurrencyID string, priceUnit float64, priceCurrencyID string) (float64, error) {
	converted, err := ConvertAmount(app, priceUnit, priceCurrencyID, targetCurrencyID)
	if err != nil {
		return 0, err
	}

	template, err := app.FindRecordById("product_templates", product.GetString("template"))
	if err != nil {
		return 0, fmt.Errorf("find template for product %s: %w", product.Id, err)
	}

	taxPct := template.GetFloat("sale_tax_percent")
	return converted * (1 + taxPct/100), nil
}
