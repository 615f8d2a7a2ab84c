package cartengine

import "github.com/shopspring/decimal"

// PricingRule selects how an item's unit price is resolved.
type PricingRule string

const (
	// PricingSingle items sell at BasePrice regardless of variant.
	PricingSingle PricingRule = "single"
	// PricingHalfFull items sell as half or full plates with separate prices.
	PricingHalfFull PricingRule = "half_full"
)

// Variant is the half-plate/full-plate selector. Single-priced items use
// VariantNone; half/full apply only to PricingHalfFull items.
type Variant string

const (
	VariantNone Variant = ""
	VariantHalf Variant = "half"
	VariantFull Variant = "full"
)

// PlateSuffix returns the display suffix appended to an item name on
// drafts and receipts.
func (v Variant) PlateSuffix() string {
	switch v {
	case VariantHalf:
		return " (Half plate)"
	case VariantFull:
		return " (Full plate)"
	default:
		return ""
	}
}

// CatalogItem is one sellable item as supplied by the catalog provider.
// Stock is the combined ceiling across both plate variants.
type CatalogItem struct {
	ID          string           `json:"item_id"`
	Name        string           `json:"name"`
	Stock       int              `json:"stock"`
	IsAvailable bool             `json:"is_available"`
	BasePrice   decimal.Decimal  `json:"base_price"`
	PricingRule PricingRule      `json:"pricing_rule"`
	HalfPrice   *decimal.Decimal `json:"half_price,omitempty"`
	FullPrice   *decimal.Decimal `json:"full_price,omitempty"`
}

// DefaultVariant returns the variant an add targets when the operator has
// not picked one yet: half plate for dual-priced items, none otherwise.
func DefaultVariant(item CatalogItem) Variant {
	if item.PricingRule == PricingHalfFull {
		return VariantHalf
	}
	return VariantNone
}

// Snapshot is an immutable view of the catalog at one point in time. Cart
// operations re-read stock from the current snapshot, never from the stale
// copies denormalized onto cart lines.
type Snapshot struct {
	items map[string]CatalogItem
}

func NewSnapshot(items []CatalogItem) Snapshot {
	m := make(map[string]CatalogItem, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return Snapshot{items: m}
}

func (s Snapshot) Item(id string) (CatalogItem, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Sellable returns the items eligible for the sell grid: available and in
// stock.
func (s Snapshot) Sellable() []CatalogItem {
	out := make([]CatalogItem, 0, len(s.items))
	for _, it := range s.items {
		if it.IsAvailable && it.Stock > 0 {
			out = append(out, it)
		}
	}
	return out
}
