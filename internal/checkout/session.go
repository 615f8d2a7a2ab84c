package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"livesell/internal/cartengine"
	"livesell/internal/sales"
)

// State of the checkout flow for one sell session.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ErrCheckoutInProgress rejects a second submit while one is in flight.
// The submit control is disabled client-side; this is the server-side
// rendering of that same re-entrancy guard.
var ErrCheckoutInProgress = errors.New("checkout already in progress")

// SaleSubmitter submits a draft to the sale-creation API.
type SaleSubmitter interface {
	SubmitSale(ctx context.Context, draft cartengine.SaleDraft) (*sales.Sale, error)
}

// Broadcaster signals sale completion to any concurrently open view.
// Best effort: a broadcast failure never fails the checkout.
type Broadcaster interface {
	SaleCompleted(sale *sales.Sale) error
}

// Config tunes one session.
type Config struct {
	// SubmitTimeout bounds the sale-creation call. Zero means no
	// timeout: the session stays in Submitting until the call settles.
	SubmitTimeout time.Duration
}

// Session owns one cart and drives Idle → Submitting → Completed/Failed.
// The cart survives a failed submission unchanged; it clears exactly once,
// on success. All operations serialize on the session mutex.
type Session struct {
	ID string

	mu        sync.Mutex
	cart      *cartengine.Cart
	state     State
	lastError string
	lastSale  *sales.Sale

	submitter   SaleSubmitter
	broadcaster Broadcaster
	timeout     time.Duration
	logger      *zap.Logger
}

func NewSession(id string, submitter SaleSubmitter, broadcaster Broadcaster, cfg Config, logger *zap.Logger) *Session {
	return &Session{
		ID:          id,
		cart:        cartengine.NewCart(),
		state:       StateIdle,
		submitter:   submitter,
		broadcaster: broadcaster,
		timeout:     cfg.SubmitTimeout,
		logger:      logger,
	}
}

// AddItem adds one unit of (item, variant) to the cart.
func (s *Session) AddItem(item cartengine.CatalogItem, variant cartengine.Variant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.beginMutation() {
		return false
	}
	return s.cart.Add(item, variant)
}

// AdjustItem changes a line's quantity against the current catalog.
func (s *Session) AdjustItem(snap cartengine.Snapshot, itemID string, variant cartengine.Variant, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.beginMutation() {
		return false
	}
	return s.cart.Adjust(snap, itemID, variant, delta)
}

// RemoveItem deletes the exact (itemID, variant) line, or every line for
// itemID when all is set.
func (s *Session) RemoveItem(itemID string, variant cartengine.Variant, all bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.beginMutation() {
		return
	}
	if all {
		s.cart.RemoveAll(itemID)
	} else {
		s.cart.Remove(itemID, variant)
	}
}

// beginMutation gates cart edits on the state machine: a completed sale
// rolls the session over to a fresh Idle transaction, an in-flight
// submission freezes the cart.
func (s *Session) beginMutation() bool {
	switch s.state {
	case StateSubmitting:
		return false
	case StateCompleted:
		s.state = StateIdle
		s.lastError = ""
	}
	return true
}

// Lines returns the current cart lines.
func (s *Session) Lines() []cartengine.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Total returns the running cart total.
func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartengine.OrderTotal(s.cart.Lines())
}

// Preview renders the checkout preview receipt without submitting.
func (s *Session) Preview(now time.Time) (cartengine.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := cartengine.ToSaleDraft(s.cart)
	if err != nil {
		return cartengine.Receipt{}, err
	}
	return cartengine.PreviewReceipt(draft, now), nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Session) LastSale() *sales.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSale
}

// Checkout converts the cart to a draft, submits it and settles the state
// machine. On failure the cart is preserved exactly as it was so the
// operator can retry or abandon; on success the cart clears and a
// sale-completed broadcast fires.
func (s *Session) Checkout(ctx context.Context) (*sales.Sale, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	draft, err := cartengine.ToSaleDraft(s.cart)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	sale, err := s.submitter.SubmitSale(ctx, draft)

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.lastError = err.Error()
		s.mu.Unlock()
		s.logger.Warn("sale creation failed, cart preserved",
			zap.String("session_id", s.ID), zap.Error(err))
		return nil, fmt.Errorf("sale creation failed: %w", err)
	}

	s.cart.Clear()
	s.state = StateCompleted
	s.lastError = ""
	s.lastSale = sale
	s.mu.Unlock()

	s.logger.Info("sale completed",
		zap.String("session_id", s.ID),
		zap.String("invoice_number", sale.InvoiceNumber))

	if s.broadcaster != nil {
		if err := s.broadcaster.SaleCompleted(sale); err != nil {
			s.logger.Warn("sale-completed broadcast failed",
				zap.String("sale_id", sale.SaleID), zap.Error(err))
		}
	}
	return sale, nil
}
