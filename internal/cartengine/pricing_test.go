package cartengine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestResolvePrice_SingleIgnoresVariant(t *testing.T) {
	item := CatalogItem{ID: "A", PricingRule: PricingSingle, BasePrice: dec(100)}

	for _, v := range []Variant{VariantNone, VariantHalf, VariantFull} {
		got := ResolvePrice(item, v)
		if !got.Equal(dec(100)) {
			t.Errorf("variant %q: expected 100, got %s", v, got)
		}
	}
}

func TestResolvePrice_HalfFull(t *testing.T) {
	item := CatalogItem{
		ID:          "B",
		PricingRule: PricingHalfFull,
		BasePrice:   dec(80),
		HalfPrice:   decPtr(60),
		FullPrice:   decPtr(100),
	}

	if got := ResolvePrice(item, VariantHalf); !got.Equal(dec(60)) {
		t.Errorf("half: expected 60, got %s", got)
	}
	if got := ResolvePrice(item, VariantFull); !got.Equal(dec(100)) {
		t.Errorf("full: expected 100, got %s", got)
	}
}

func TestResolvePrice_HalfFullFallsBackToBase(t *testing.T) {
	item := CatalogItem{ID: "B", PricingRule: PricingHalfFull, BasePrice: dec(80), FullPrice: decPtr(100)}

	if got := ResolvePrice(item, VariantHalf); !got.Equal(dec(80)) {
		t.Errorf("missing half price: expected base 80, got %s", got)
	}

	// Degenerate but legal: neither variant price configured.
	bare := CatalogItem{ID: "C", PricingRule: PricingHalfFull, BasePrice: dec(50)}
	if got := ResolvePrice(bare, VariantFull); !got.Equal(dec(50)) {
		t.Errorf("bare half/full item: expected base 50, got %s", got)
	}
}

func TestResolvePrice_Deterministic(t *testing.T) {
	item := CatalogItem{ID: "B", PricingRule: PricingHalfFull, BasePrice: dec(80), HalfPrice: decPtr(60)}

	first := ResolvePrice(item, VariantHalf)
	second := ResolvePrice(item, VariantHalf)
	if !first.Equal(second) {
		t.Errorf("expected identical results, got %s and %s", first, second)
	}
}

func TestDefaultVariant(t *testing.T) {
	if got := DefaultVariant(CatalogItem{PricingRule: PricingHalfFull}); got != VariantHalf {
		t.Errorf("expected half for half/full item, got %q", got)
	}
	if got := DefaultVariant(CatalogItem{PricingRule: PricingSingle}); got != VariantNone {
		t.Errorf("expected none for single item, got %q", got)
	}
}
