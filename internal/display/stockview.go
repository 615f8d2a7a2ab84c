package display

import (
	"sort"
	"sync"

	"livesell/internal/cartengine"
)

// StockView is the public live-inventory display's local cache of the
// catalog. It is best-effort coherent: seeded from a full fetch, spliced
// per item on sale notifications, rebuilt wholesale when transport fails.
type StockView struct {
	mu    sync.RWMutex
	items map[string]cartengine.CatalogItem
}

func NewStockView() *StockView {
	return &StockView{items: make(map[string]cartengine.CatalogItem)}
}

// Seed replaces the whole view with a fresh catalog fetch.
func (v *StockView) Seed(items []cartengine.CatalogItem) {
	next := make(map[string]cartengine.CatalogItem, len(items))
	for _, item := range items {
		next[item.ID] = item
	}
	v.mu.Lock()
	v.items = next
	v.mu.Unlock()
}

// Items returns the displayed catalog, name-sorted.
func (v *StockView) Items() []cartengine.CatalogItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]cartengine.CatalogItem, 0, len(v.items))
	for _, item := range v.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (v *StockView) Item(id string) (cartengine.CatalogItem, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	item, ok := v.items[id]
	return item, ok
}

// ApplyDeduction optimistically lowers displayed stock ahead of the
// authoritative refetch, returning the prior entry for rollback.
func (v *StockView) ApplyDeduction(itemID string, quantity int) (prior cartengine.CatalogItem, existed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	item, ok := v.items[itemID]
	if !ok {
		return cartengine.CatalogItem{}, false
	}
	prior = item
	item.Stock -= quantity
	if item.Stock < 0 {
		item.Stock = 0
	}
	v.items[itemID] = item
	return prior, true
}

// Splice replaces one item with its authoritative state. Items that went
// unavailable drop off the display.
func (v *StockView) Splice(item cartengine.CatalogItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !item.IsAvailable {
		delete(v.items, item.ID)
		return
	}
	v.items[item.ID] = item
}

// Remove drops a delisted item.
func (v *StockView) Remove(itemID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.items, itemID)
}

// Restore rolls an entry back to its pre-optimistic state.
func (v *StockView) Restore(item cartengine.CatalogItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items[item.ID] = item
}
