package cartengine

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrEmptyCart rejects checkout conversion of a cart with no lines. The
// sell grid disables the checkout control on an empty cart, so hitting
// this is a broken precondition, not a recoverable runtime error.
var ErrEmptyCart = errors.New("cart is empty")

// PricedLine is the line shape shared by drafts, persisted sales and
// receipts: a display name, a quantity and resolved prices.
type PricedLine struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Variant    Variant         `json:"variant,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SaleDraft is the unpersisted, client-computed representation of a cart
// ready for submission to the sales service.
type SaleDraft struct {
	Items       []PricedLine    `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DisplayName qualifies an item name with its plate variant.
func DisplayName(name string, variant Variant) string {
	return name + variant.PlateSuffix()
}

// ToSaleDraft converts the cart into a sale-creation payload. Line names
// are variant-qualified, line totals are computed through the same
// aggregator the cart view uses.
func ToSaleDraft(cart *Cart) (SaleDraft, error) {
	if cart.Len() == 0 {
		return SaleDraft{}, ErrEmptyCart
	}
	lines := cart.Lines()
	items := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, PricedLine{
			ItemID:     line.ItemID,
			ItemName:   DisplayName(line.ItemName, line.Variant),
			Variant:    line.Variant,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: LineTotal(line),
		})
	}
	return SaleDraft{Items: items, TotalAmount: OrderTotal(lines)}, nil
}
