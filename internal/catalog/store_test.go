package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"livesell/internal/broadcast"
	"livesell/internal/cartengine"
)

func newItem(name string, stock int, available bool) cartengine.CatalogItem {
	return cartengine.CatalogItem{
		Name:        name,
		Stock:       stock,
		IsAvailable: available,
		BasePrice:   decimal.NewFromInt(100),
		PricingRule: cartengine.PricingSingle,
	}
}

func TestStore_CreateAssignsID(t *testing.T) {
	store := NewStore()
	item := store.Create(newItem("Biryani", 5, true))
	if item.ID == "" {
		t.Fatal("expected generated id")
	}
	got, ok := store.Get(item.ID)
	if !ok || got.Name != "Biryani" {
		t.Errorf("expected to read item back, got %v ok=%v", got, ok)
	}
}

func TestStore_SellableFiltersUnavailableAndOutOfStock(t *testing.T) {
	store := NewStore()
	store.Create(newItem("In stock", 5, true))
	store.Create(newItem("Hidden", 5, false))
	store.Create(newItem("Sold out", 0, true))

	sellable := store.Sellable()
	if len(sellable) != 1 || sellable[0].Name != "In stock" {
		t.Errorf("unexpected sellable list: %v", sellable)
	}
}

func TestStore_DeductFloorsAtZero(t *testing.T) {
	store := NewStore()
	item := store.Create(newItem("Biryani", 3, true))

	after, ok := store.Deduct(item.ID, 2)
	if !ok || after.Stock != 1 {
		t.Errorf("expected stock 1 after deduct, got %d ok=%v", after.Stock, ok)
	}

	after, _ = store.Deduct(item.ID, 10)
	if after.Stock != 0 {
		t.Errorf("expected stock floored at 0, got %d", after.Stock)
	}

	if _, ok := store.Deduct("missing", 1); ok {
		t.Error("expected deduct of unknown item to report not found")
	}
}

func TestStore_SetAvailability(t *testing.T) {
	store := NewStore()
	item := store.Create(newItem("Biryani", 3, true))

	toggled, ok := store.SetAvailability(item.ID, false)
	if !ok || toggled.IsAvailable {
		t.Errorf("expected item hidden, got %v ok=%v", toggled, ok)
	}
	if got := store.Sellable(); len(got) != 0 {
		t.Errorf("hidden item still sellable: %v", got)
	}
}

func TestStockDeductor_AppliesSaleQuantities(t *testing.T) {
	store := NewStore()
	a := store.Create(newItem("A", 5, true))
	b := store.Create(newItem("B", 2, true))

	handler := StockDeductor(store, zap.NewNop())
	handler(broadcast.SaleCompletedEvent{
		SaleID: "sale-1",
		Items: []broadcast.ItemQuantity{
			{ItemID: a.ID, Quantity: 3},
			{ItemID: b.ID, Quantity: 2},
			{ItemID: "ghost", Quantity: 1},
		},
	})

	if got, _ := store.Get(a.ID); got.Stock != 2 {
		t.Errorf("item A: expected stock 2, got %d", got.Stock)
	}
	if got, _ := store.Get(b.ID); got.Stock != 0 {
		t.Errorf("item B: expected stock 0, got %d", got.Stock)
	}
}
