package display

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"livesell/internal/broadcast"
	"livesell/internal/cartengine"
	"livesell/internal/clients"
)

// CatalogSource is the slice of the catalog client the display needs.
type CatalogSource interface {
	SellableItems(ctx context.Context) ([]cartengine.CatalogItem, error)
	Item(ctx context.Context, itemID string) (cartengine.CatalogItem, error)
}

// Refresher keeps a StockView coherent with the catalog. Resumption
// policy: on each sale notification refetch only the affected items and
// splice them in; on any transport error fall back to a full refetch; if
// even that fails, roll the optimistic deductions back and wait for the
// next signal.
type Refresher struct {
	view    *StockView
	source  CatalogSource
	timeout time.Duration
	logger  *zap.Logger
}

func NewRefresher(view *StockView, source CatalogSource, logger *zap.Logger) *Refresher {
	return &Refresher{
		view:    view,
		source:  source,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

// Seed performs the initial full catalog fetch.
func (r *Refresher) Seed(ctx context.Context) error {
	items, err := r.source.SellableItems(ctx)
	if err != nil {
		return err
	}
	r.view.Seed(items)
	r.logger.Info("display seeded", zap.Int("items", len(items)))
	return nil
}

// HandleSale is the broadcast handler: optimistic deduct, then reconcile
// each affected item against the catalog service.
func (r *Refresher) HandleSale(event broadcast.SaleCompletedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	type rollback struct {
		item    cartengine.CatalogItem
		existed bool
	}
	priors := make(map[string]rollback, len(event.Items))
	for _, iq := range event.Items {
		prior, existed := r.view.ApplyDeduction(iq.ItemID, iq.Quantity)
		priors[iq.ItemID] = rollback{item: prior, existed: existed}
	}

	for _, iq := range event.Items {
		item, err := r.source.Item(ctx, iq.ItemID)
		switch {
		case err == nil:
			r.view.Splice(item)
		case errors.Is(err, clients.ErrItemNotFound):
			r.view.Remove(iq.ItemID)
		default:
			r.logger.Warn("single-item refetch failed, falling back to full refresh",
				zap.String("item_id", iq.ItemID), zap.Error(err))
			if refreshErr := r.Seed(ctx); refreshErr != nil {
				r.logger.Warn("full refresh failed, rolling back optimistic stock",
					zap.Error(refreshErr))
				for _, p := range priors {
					if p.existed {
						r.view.Restore(p.item)
					}
				}
			}
			return
		}
	}
}
