// Package services provides the BOM pricing, aggregation and variant
// synthesis business rules.
package services

// DiscountPolicy values carried on a pricelist.
const (
	PolicyWithDiscount    = "with_discount"
	PolicyWithoutDiscount = "without_discount"
)

func CalcPriceSubtotal(unitPrice, qty float64) float64 {
	return unitPrice * qty
}

// CalcInstallationDays derives a line's installation estimate from the
// product template's per-unit baseline.
func CalcInstallationDays(baselineDays, qty float64) float64 {
	return baselineDays * qty
}

// LineForTotals carries the two derived line values the header aggregates.
type LineForTotals struct {
	PriceSubtotal    float64
	InstallationDays float64
}

type BOMTotals struct {
	TotalAmount           float64
	TotalInstallationDays float64
}

// CalcBOMTotals sums line subtotals and installation estimates.
// An empty line set yields zero totals.
func CalcBOMTotals(lines []LineForTotals) BOMTotals {
	var totals BOMTotals
	for _, l := range lines {
		totals.TotalAmount += l.PriceSubtotal
		totals.TotalInstallationDays += l.InstallationDays
	}
	return totals
}

// DisplayPrice applies the pricelist discount policy to the raw pricelist
// price. With with_discount (or when no rule matched) the pricelist price is
// final. With without_discount the price before discount is surfaced, but a
// negative discount (surcharge) must still be reflected upward, so the
// larger of the two wins.
func DisplayPrice(policy string, ruleResolved bool, basePrice, pricelistPrice float64) float64 {
	if policy == PolicyWithDiscount {
		return pricelistPrice
	}
	if !ruleResolved {
		return pricelistPrice
	}
	if basePrice > pricelistPrice {
		return basePrice
	}
	return pricelistPrice
}
