package cartengine

import "github.com/shopspring/decimal"

// ResolvePrice maps an item and a chosen variant to a unit price.
//
// Single-priced items always resolve to BasePrice. Half/full items resolve
// to their variant price, falling back to BasePrice when the variant price
// was never configured. Callers must pick a variant for half/full items
// before resolving (DefaultVariant gives the policy default).
func ResolvePrice(item CatalogItem, variant Variant) decimal.Decimal {
	if item.PricingRule != PricingHalfFull {
		return item.BasePrice
	}
	switch variant {
	case VariantHalf:
		if item.HalfPrice != nil {
			return *item.HalfPrice
		}
	case VariantFull:
		if item.FullPrice != nil {
			return *item.FullPrice
		}
	}
	return item.BasePrice
}
