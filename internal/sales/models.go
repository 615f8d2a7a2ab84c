package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"livesell/internal/cartengine"
)

// Sale is the persisted, invoiced record returned after a successful
// submission. Line items echo the submitted draft unmodified.
type Sale struct {
	SaleID        string                  `json:"sale_id"`
	InvoiceNumber string                  `json:"invoice_number"`
	SaleDate      time.Time               `json:"sale_date"`
	Items         []cartengine.PricedLine `json:"items"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
}

// CreateSaleRequest is the SaleDraft-shaped submission body.
type CreateSaleRequest struct {
	Items       []cartengine.PricedLine `json:"items" binding:"required,min=1"`
	TotalAmount decimal.Decimal         `json:"total_amount"`
}

// Receipt renders the persisted sale through the shared line-and-total
// path, so a reprint cannot diverge from the checkout preview.
func (s *Sale) Receipt() cartengine.Receipt {
	return cartengine.NewReceipt(s.InvoiceNumber, s.SaleDate, s.Items)
}
