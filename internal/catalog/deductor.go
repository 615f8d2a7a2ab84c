package catalog

import (
	"go.uber.org/zap"

	"livesell/internal/broadcast"
)

// StockDeductor applies completed sales to authoritative stock. It is the
// catalog side of the sale-completed broadcast: the sell flow enforces the
// ceiling against its last-fetched snapshot, this keeps the source of
// truth moving underneath it.
func StockDeductor(store *Store, logger *zap.Logger) broadcast.HandlerFunc {
	return func(event broadcast.SaleCompletedEvent) {
		for _, iq := range event.Items {
			item, ok := store.Deduct(iq.ItemID, iq.Quantity)
			if !ok {
				logger.Warn("sale references unknown catalog item",
					zap.String("sale_id", event.SaleID),
					zap.String("item_id", iq.ItemID))
				continue
			}
			logger.Info("deducted stock",
				zap.String("item_id", iq.ItemID),
				zap.Int("quantity", iq.Quantity),
				zap.Int("remaining", item.Stock))
		}
	}
}
