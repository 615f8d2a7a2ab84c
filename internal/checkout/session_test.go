package checkout

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"livesell/internal/cartengine"
	"livesell/internal/sales"
)

type fakeSubmitter struct {
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
	last    cartengine.SaleDraft
}

func (f *fakeSubmitter) SubmitSale(ctx context.Context, draft cartengine.SaleDraft) (*sales.Sale, error) {
	f.calls++
	f.last = draft
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sales.Sale{
		SaleID:        "sale-1",
		InvoiceNumber: "INV-000001",
		SaleDate:      time.Now(),
		Items:         draft.Items,
		TotalAmount:   draft.TotalAmount,
	}, nil
}

type fakeBroadcaster struct {
	sales []*sales.Sale
	err   error
}

func (f *fakeBroadcaster) SaleCompleted(s *sales.Sale) error {
	f.sales = append(f.sales, s)
	return f.err
}

func testItem(id string, stock int, price int64) cartengine.CatalogItem {
	return cartengine.CatalogItem{
		ID:          id,
		Name:        "Item " + id,
		Stock:       stock,
		IsAvailable: true,
		BasePrice:   decimal.NewFromInt(price),
		PricingRule: cartengine.PricingSingle,
	}
}

func newTestSession(sub SaleSubmitter, b Broadcaster) *Session {
	return NewSession("sess-1", sub, b, Config{}, zap.NewNop())
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newTestSession(&fakeSubmitter{}, nil)
	_, err := s.Checkout(context.Background())
	if !errors.Is(err, cartengine.ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("expected session to stay idle, got %s", s.State())
	}
}

func TestCheckout_SuccessClearsCartAndBroadcasts(t *testing.T) {
	sub := &fakeSubmitter{}
	b := &fakeBroadcaster{}
	s := newTestSession(sub, b)
	s.AddItem(testItem("A", 3, 100), cartengine.VariantNone)
	s.AddItem(testItem("A", 3, 100), cartengine.VariantNone)

	preTotal := s.Total()

	sale, err := s.Checkout(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sale.TotalAmount.Equal(preTotal) {
		t.Errorf("sale total %s != cart total %s", sale.TotalAmount, preTotal)
	}
	if len(s.Lines()) != 0 {
		t.Errorf("expected cart cleared after success, got %d lines", len(s.Lines()))
	}
	if s.State() != StateCompleted {
		t.Errorf("expected completed state, got %s", s.State())
	}
	if len(b.sales) != 1 || b.sales[0].SaleID != "sale-1" {
		t.Errorf("expected one sale-completed broadcast, got %v", b.sales)
	}
}

func TestCheckout_FailurePreservesCart(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("network down")}
	s := newTestSession(sub, &fakeBroadcaster{})
	s.AddItem(testItem("A", 3, 100), cartengine.VariantNone)
	s.AddItem(testItem("B", 2, 50), cartengine.VariantNone)

	before := s.Lines()

	if _, err := s.Checkout(context.Background()); err == nil {
		t.Fatal("expected checkout to fail")
	}
	if s.State() != StateFailed {
		t.Errorf("expected failed state, got %s", s.State())
	}
	if s.LastError() == "" {
		t.Error("expected last error to be recorded")
	}
	if !reflect.DeepEqual(before, s.Lines()) {
		t.Errorf("cart changed across failed submission:\nbefore %v\nafter  %v", before, s.Lines())
	}

	// Retry succeeds and only then clears the cart.
	sub.err = nil
	if _, err := s.Checkout(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(s.Lines()) != 0 {
		t.Errorf("expected cart cleared after retry, got %d lines", len(s.Lines()))
	}
}

func TestCheckout_RejectsReentry(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{}), started: make(chan struct{})}
	s := newTestSession(sub, nil)
	s.AddItem(testItem("A", 3, 100), cartengine.VariantNone)

	done := make(chan error, 1)
	go func() {
		_, err := s.Checkout(context.Background())
		done <- err
	}()
	<-sub.started

	if _, err := s.Checkout(context.Background()); !errors.Is(err, ErrCheckoutInProgress) {
		t.Errorf("expected ErrCheckoutInProgress, got %v", err)
	}
	// The cart is frozen while the submission is in flight.
	if s.AddItem(testItem("B", 2, 50), cartengine.VariantNone) {
		t.Error("expected cart mutation to be rejected while submitting")
	}

	close(sub.block)
	if err := <-done; err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	if sub.calls != 1 {
		t.Errorf("expected exactly one submission, got %d", sub.calls)
	}
}

func TestCheckout_SubmitTimeout(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{})}
	s := NewSession("sess-1", ctxSubmitter{sub}, nil, Config{SubmitTimeout: 10 * time.Millisecond}, zap.NewNop())
	s.AddItem(testItem("A", 3, 100), cartengine.VariantNone)

	if _, err := s.Checkout(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
	if s.State() != StateFailed {
		t.Errorf("expected failed state after timeout, got %s", s.State())
	}
	close(sub.block)
}

// ctxSubmitter respects context cancellation around a blocking fake.
type ctxSubmitter struct {
	inner *fakeSubmitter
}

func (c ctxSubmitter) SubmitSale(ctx context.Context, draft cartengine.SaleDraft) (*sales.Sale, error) {
	done := make(chan struct{})
	var sale *sales.Sale
	var err error
	go func() {
		sale, err = c.inner.SubmitSale(context.Background(), draft)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
		return sale, err
	}
}

func TestCompletedSessionRollsOverToNewTransaction(t *testing.T) {
	s := newTestSession(&fakeSubmitter{}, nil)
	s.AddItem(testItem("A", 3, 100), cartengine.VariantNone)
	if _, err := s.Checkout(context.Background()); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !s.AddItem(testItem("B", 2, 50), cartengine.VariantNone) {
		t.Fatal("expected add to start a new transaction")
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle state for new transaction, got %s", s.State())
	}
	if s.LastSale() == nil {
		t.Error("expected last sale to stay available for reprint")
	}
}
