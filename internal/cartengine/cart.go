package cartengine

import (
	"sort"

	"github.com/shopspring/decimal"
)

type lineKey struct {
	itemID  string
	variant Variant
}

// Line is one cart entry, keyed by (item, variant). Two variants of the
// same item are distinct lines sharing one stock pool. ItemName, UnitPrice
// and StockCeiling are snapshots taken when the line was created; live
// stock checks re-read the catalog instead.
type Line struct {
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	Variant      Variant         `json:"variant,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stock_ceiling"`
}

// Cart holds the lines of one live-sell transaction. Rejected mutations
// (stock ceiling, missing lines) are silent no-ops: the sell grid disables
// the triggering control before the ceiling is reached, so a rejection here
// is defensive, not a user-facing error.
//
// Cart is not safe for concurrent use; sessions serialize access.
type Cart struct {
	lines map[lineKey]*Line
}

func NewCart() *Cart {
	return &Cart{lines: make(map[lineKey]*Line)}
}

// Add puts one unit of (item, variant) in the cart. For half/full items
// with no variant chosen it targets the default variant. Returns false
// when the add would exceed the item's combined stock ceiling.
func (c *Cart) Add(item CatalogItem, variant Variant) bool {
	if variant == VariantNone && item.PricingRule == PricingHalfFull {
		variant = DefaultVariant(item)
	}
	key := lineKey{itemID: item.ID, variant: variant}

	if line, ok := c.lines[key]; ok {
		if c.QuantityFor(item.ID)+1 > item.Stock {
			return false
		}
		line.Quantity++
		return true
	}

	if item.Stock <= 0 || c.QuantityFor(item.ID)+1 > item.Stock {
		return false
	}
	c.lines[key] = &Line{
		ItemID:       item.ID,
		ItemName:     item.Name,
		Variant:      variant,
		UnitPrice:    ResolvePrice(item, variant),
		Quantity:     1,
		StockCeiling: item.Stock,
	}
	return true
}

// Adjust changes the quantity of the (itemID, variant) line by delta,
// re-checking the combined stock pool against the current snapshot.
// A line reaching exactly zero is removed; a delta that would go negative
// or breach the ceiling is a no-op. Returns whether the cart changed.
func (c *Cart) Adjust(snap Snapshot, itemID string, variant Variant, delta int) bool {
	key := lineKey{itemID: itemID, variant: variant}
	line, ok := c.lines[key]
	if !ok || delta == 0 {
		return false
	}

	if delta > 0 {
		item, ok := snap.Item(itemID)
		if !ok || c.QuantityFor(itemID)+delta > item.Stock {
			return false
		}
	}

	next := line.Quantity + delta
	switch {
	case next == 0:
		delete(c.lines, key)
	case next < 0:
		return false
	default:
		line.Quantity = next
	}
	return true
}

// Remove deletes the exact (itemID, variant) line.
func (c *Cart) Remove(itemID string, variant Variant) {
	delete(c.lines, lineKey{itemID: itemID, variant: variant})
}

// RemoveAll deletes every line for itemID regardless of variant.
func (c *Cart) RemoveAll(itemID string) {
	for key := range c.lines {
		if key.itemID == itemID {
			delete(c.lines, key)
		}
	}
}

// QuantityFor sums quantities across all of an item's lines. This is the
// combined pool the stock ceiling is enforced against.
func (c *Cart) QuantityFor(itemID string) int {
	total := 0
	for key, line := range c.lines {
		if key.itemID == itemID {
			total += line.Quantity
		}
	}
	return total
}

// Lines returns a stable-ordered copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].Variant < out[j].Variant
	})
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear empties the cart. Called exactly once per transaction, on a
// successful sale-creation response.
func (c *Cart) Clear() {
	c.lines = make(map[lineKey]*Line)
}
