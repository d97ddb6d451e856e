package invoice

import "github.com/shopspring/decimal"

// Calculation is pure and side-effect free: unset quantities and prices are
// normalized to zero, amounts are exact decimals, and no display rounding
// happens at this layer. Formatting is the preview renderer's concern.

// normalize maps an unset numeric field to zero.
func normalize(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

// LineAmount returns quantity * unit price for one item, treating unset
// fields as zero. It never fails and never returns an unset marker.
func LineAmount(item LineItem) decimal.Decimal {
	return normalize(item.Quantity).Mul(normalize(item.UnitPrice))
}

// EffectivePrice returns the item's unit price with currency conversion
// applied when it is active (see CurrencySettings.ConversionActive), else
// the raw unit price. Unset prices normalize to zero.
func EffectivePrice(item LineItem, settings CurrencySettings) decimal.Decimal {
	price := normalize(item.UnitPrice)
	if settings.ConversionActive() {
		return price.Mul(settings.Rate)
	}
	return price
}

// GrandTotal sums LineAmount over the items in list order with
// EffectivePrice substituted for each raw unit price. An item with both
// fields unset contributes exactly zero.
func GrandTotal(items []LineItem, settings CurrencySettings) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		price := EffectivePrice(item, settings)
		total = total.Add(normalize(item.Quantity).Mul(price))
	}
	return total
}
