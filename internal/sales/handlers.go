package sales

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livesell/internal/cartengine"
	"livesell/internal/httpapi"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateSale(ctx context.Context, draft cartengine.SaleDraft) (*Sale, error)
	GetSale(ctx context.Context, saleID string) (*Sale, error)
	ListSales(ctx context.Context, limit int) ([]Sale, error)
}

type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// CreateSale handles POST /sales
func (h *Handler) CreateSale(c *gin.Context) {
	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
				Error:   "INVALID_INPUT",
				Message: "Line quantities must be positive",
			})
			return
		}
	}

	// The client computed its total through the same aggregator; a
	// mismatch means the payload was tampered with or built by hand.
	recomputed := cartengine.LinesTotal(req.Items)
	if !req.TotalAmount.IsZero() && !req.TotalAmount.Equal(recomputed) {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "TOTAL_MISMATCH",
			Message: "Submitted total does not match line items",
			Details: "expected " + recomputed.String() + ", got " + req.TotalAmount.String(),
		})
		return
	}

	sale, err := h.store.CreateSale(c.Request.Context(), cartengine.SaleDraft{
		Items:       req.Items,
		TotalAmount: recomputed,
	})
	if err != nil {
		h.logger.Error("failed to create sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{
			Error:   "SALE_CREATION_FAILED",
			Message: "Failed to persist sale",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// GetSale handles GET /sales/:saleId
func (h *Handler) GetSale(c *gin.Context) {
	sale, err := h.store.GetSale(c.Request.Context(), c.Param("saleId"))
	if err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "Sale not found",
			})
			return
		}
		h.logger.Error("failed to fetch sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "Failed to fetch sale",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetReceipt handles GET /sales/:saleId/receipt — the reprint path,
// rendered through the shared receipt builder.
func (h *Handler) GetReceipt(c *gin.Context) {
	sale, err := h.store.GetSale(c.Request.Context(), c.Param("saleId"))
	if err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "Sale not found",
			})
			return
		}
		h.logger.Error("failed to fetch sale for receipt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "Failed to fetch sale",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, sale.Receipt())
}

// ListSales handles GET /sales
func (h *Handler) ListSales(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sales, err := h.store.ListSales(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "Failed to list sales",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}
