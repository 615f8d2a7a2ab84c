package pos

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livesell/internal/cartengine"
	"livesell/internal/checkout"
	"livesell/internal/httpapi"
)

// CatalogProvider supplies the current sellable catalog snapshot.
type CatalogProvider interface {
	Snapshot(ctx context.Context) (cartengine.Snapshot, error)
}

type AddItemRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	Variant string `json:"variant" binding:"omitempty,oneof=half full"`
}

type AdjustItemRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	Variant string `json:"variant" binding:"omitempty,oneof=half full"`
	Delta   int    `json:"delta" binding:"required"`
}

// Handler wires the cart engine to HTTP for operator terminals.
type Handler struct {
	sessions *SessionManager
	catalog  CatalogProvider
	logger   *zap.Logger

	// Last good snapshot; a failed catalog fetch degrades to it instead
	// of blocking the sell flow.
	snapMu   sync.RWMutex
	lastSnap cartengine.Snapshot
}

func NewHandler(sessions *SessionManager, catalog CatalogProvider, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, catalog: catalog, logger: logger}
}

func (h *Handler) snapshot(ctx context.Context) cartengine.Snapshot {
	snap, err := h.catalog.Snapshot(ctx)
	if err != nil {
		h.logger.Warn("catalog fetch failed, using last snapshot", zap.Error(err))
		h.snapMu.RLock()
		defer h.snapMu.RUnlock()
		return h.lastSnap
	}
	h.snapMu.Lock()
	h.lastSnap = snap
	h.snapMu.Unlock()
	return snap
}

func (h *Handler) session(c *gin.Context) (*checkout.Session, bool) {
	session, ok := h.sessions.Get(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Sell session not found",
		})
	}
	return session, ok
}

func cartView(session *checkout.Session) gin.H {
	lines := session.Lines()
	total := cartengine.OrderTotal(lines)
	return gin.H{
		"session_id":    session.ID,
		"lines":         lines,
		"total_amount":  total,
		"total_display": cartengine.FormatAmount(total),
		"state":         session.State(),
	}
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(c *gin.Context) {
	session := h.sessions.Create()
	h.logger.Info("opened sell session", zap.String("session_id", session.ID))
	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
}

// CloseSession handles DELETE /sessions/:sessionId
func (h *Handler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("sessionId"))
	c.Status(http.StatusNoContent)
}

// GetCatalog handles GET /catalog — the sell grid's item list.
func (h *Handler) GetCatalog(c *gin.Context) {
	snap := h.snapshot(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"items": snap.Sellable()})
}

// GetCart handles GET /sessions/:sessionId/cart
func (h *Handler) GetCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartView(session))
}

// AddItem handles POST /sessions/:sessionId/cart/items. A rejected add
// (stock ceiling) returns the unchanged cart, not an error: the grid
// disables the control at the ceiling, so a rejection here has no user to
// report to.
func (h *Handler) AddItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	snap := h.snapshot(c.Request.Context())
	item, found := snap.Item(req.ItemID)
	if !found || !item.IsAvailable {
		c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Item is not in the sellable catalog",
		})
		return
	}

	session.AddItem(item, cartengine.Variant(req.Variant))
	c.JSON(http.StatusOK, cartView(session))
}

// AdjustItem handles PATCH /sessions/:sessionId/cart/items
func (h *Handler) AdjustItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req AdjustItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	snap := h.snapshot(c.Request.Context())
	session.AdjustItem(snap, req.ItemID, cartengine.Variant(req.Variant), req.Delta)
	c.JSON(http.StatusOK, cartView(session))
}

// RemoveItem handles DELETE /sessions/:sessionId/cart/items/:itemId.
// Without ?variant= it removes every line for the item.
func (h *Handler) RemoveItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	itemID := c.Param("itemId")
	variant, specified := c.GetQuery("variant")
	session.RemoveItem(itemID, cartengine.Variant(variant), !specified)
	c.JSON(http.StatusOK, cartView(session))
}

// Preview handles GET /sessions/:sessionId/preview — the pre-confirmation
// receipt, built through the same path the final invoice uses.
func (h *Handler) Preview(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	receipt, err := session.Preview(time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "EMPTY_CART",
			Message: "Cannot preview an empty cart",
		})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Checkout handles POST /sessions/:sessionId/checkout
func (h *Handler) Checkout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	sale, err := session.Checkout(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, cartengine.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
				Error:   "EMPTY_CART",
				Message: "Cannot checkout an empty cart",
			})
		case errors.Is(err, checkout.ErrCheckoutInProgress):
			c.JSON(http.StatusConflict, httpapi.ErrorResponse{
				Error:   "CHECKOUT_IN_PROGRESS",
				Message: "A submission is already in flight for this session",
			})
		default:
			// Recoverable: the cart is preserved, the operator retries.
			c.JSON(http.StatusBadGateway, httpapi.ErrorResponse{
				Error:   "SALE_CREATION_FAILED",
				Message: "Failed to create sale; cart preserved for retry",
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, sale)
}

// Receipt handles GET /sessions/:sessionId/receipt — the post-sale
// invoice for the session's most recent completed sale.
func (h *Handler) Receipt(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	sale := session.LastSale()
	if sale == nil {
		c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "No completed sale for this session",
		})
		return
	}
	c.JSON(http.StatusOK, sale.Receipt())
}
