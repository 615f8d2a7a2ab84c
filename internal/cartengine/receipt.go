package cartengine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the render-ready view of a transaction. Both the pre-sale
// preview and the post-sale invoice build through NewReceipt, so the total
// a customer sees before confirming is the total printed after.
type Receipt struct {
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	SaleDate      time.Time       `json:"sale_date"`
	Lines         []PricedLine    `json:"lines"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDisplay  string          `json:"total_display"`
}

// NewReceipt builds a receipt from priced lines. The total is always
// recomputed through the shared aggregator, never trusted from a caller.
func NewReceipt(invoiceNumber string, saleDate time.Time, lines []PricedLine) Receipt {
	total := LinesTotal(lines)
	return Receipt{
		InvoiceNumber: invoiceNumber,
		SaleDate:      saleDate,
		Lines:         lines,
		TotalAmount:   total,
		TotalDisplay:  FormatAmount(total),
	}
}

// PreviewReceipt renders an unconfirmed draft.
func PreviewReceipt(draft SaleDraft, now time.Time) Receipt {
	return NewReceipt("", now, draft.Items)
}
