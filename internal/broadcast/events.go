package broadcast

// DefaultExchange is the fanout exchange sale-completed events go through.
// Fanout gives every open view its own copy; delivery is best effort with
// no ordering guarantee relative to the persistence write.
const DefaultExchange = "livesell.sales"

// ItemQuantity is one affected catalog item on a completed sale.
type ItemQuantity struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// SaleCompletedEvent tells listening views a sale went through and which
// items they should refresh.
type SaleCompletedEvent struct {
	SaleID        string         `json:"sale_id"`
	InvoiceNumber string         `json:"invoice_number"`
	Items         []ItemQuantity `json:"items"`
}
