package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"livesell/internal/cartengine"
	"livesell/internal/httpapi"
	"livesell/internal/sales"
)

func draftFixture() cartengine.SaleDraft {
	unit := decimal.NewFromInt(60)
	return cartengine.SaleDraft{
		Items: []cartengine.PricedLine{{
			ItemID:     "B",
			ItemName:   "Item B (Half plate)",
			Variant:    cartengine.VariantHalf,
			Quantity:   2,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(decimal.NewFromInt(2)),
		}},
		TotalAmount: decimal.NewFromInt(120),
	}
}

func TestSubmitSale_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sales" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req sales.CreateSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sales.Sale{
			SaleID:        "sale-1",
			InvoiceNumber: "INV-000042",
			SaleDate:      time.Now(),
			Items:         req.Items,
			TotalAmount:   req.TotalAmount,
		})
	}))
	defer srv.Close()

	client := NewSalesClient(srv.URL)
	sale, err := client.SubmitSale(context.Background(), draftFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale.InvoiceNumber != "INV-000042" {
		t.Errorf("expected invoice INV-000042, got %q", sale.InvoiceNumber)
	}
	if !sale.TotalAmount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected echoed total 120, got %s", sale.TotalAmount)
	}
}

func TestSubmitSale_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(httpapi.ErrorResponse{
			Error:   "TOTAL_MISMATCH",
			Message: "Submitted total does not match line items",
		})
	}))
	defer srv.Close()

	client := NewSalesClient(srv.URL)
	if _, err := client.SubmitSale(context.Background(), draftFixture()); err == nil {
		t.Fatal("expected error for rejected draft")
	}
}

func TestCatalogClient_SnapshotAndItem(t *testing.T) {
	item := cartengine.CatalogItem{
		ID:          "A",
		Name:        "Item A",
		Stock:       3,
		IsAvailable: true,
		BasePrice:   decimal.NewFromInt(100),
		PricingRule: cartengine.PricingSingle,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items":
			json.NewEncoder(w).Encode(map[string][]cartengine.CatalogItem{"items": {item}})
		case "/items/A":
			json.NewEncoder(w).Encode(item)
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(httpapi.ErrorResponse{Error: "NOT_FOUND", Message: "Catalog item not found"})
		}
	}))
	defer srv.Close()

	client := NewCatalogClient(srv.URL)

	snap, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if got, ok := snap.Item("A"); !ok || got.Stock != 3 {
		t.Errorf("expected item A with stock 3, got %v ok=%v", got, ok)
	}

	if _, err := client.Item(context.Background(), "A"); err != nil {
		t.Errorf("single item fetch failed: %v", err)
	}
	if _, err := client.Item(context.Background(), "ghost"); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
