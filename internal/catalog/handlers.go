package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"livesell/internal/cartengine"
	"livesell/internal/httpapi"
)

type ItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Stock       int              `json:"stock" binding:"min=0"`
	IsAvailable *bool            `json:"is_available"`
	BasePrice   decimal.Decimal  `json:"base_price"`
	PricingRule string           `json:"pricing_rule" binding:"omitempty,oneof=single half_full"`
	HalfPrice   *decimal.Decimal `json:"half_price"`
	FullPrice   *decimal.Decimal `json:"full_price"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type Handler struct {
	store  *Store
	logger *zap.Logger
}

func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (r ItemRequest) toItem() cartengine.CatalogItem {
	rule := cartengine.PricingRule(r.PricingRule)
	if rule == "" {
		rule = cartengine.PricingSingle
	}
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return cartengine.CatalogItem{
		Name:        r.Name,
		Stock:       r.Stock,
		IsAvailable: available,
		BasePrice:   r.BasePrice,
		PricingRule: rule,
		HalfPrice:   r.HalfPrice,
		FullPrice:   r.FullPrice,
	}
}

// CreateItem handles POST /items
func (h *Handler) CreateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	if req.BasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Base price cannot be negative",
		})
		return
	}

	item := h.store.Create(req.toItem())
	h.logger.Info("created catalog item",
		zap.String("item_id", item.ID), zap.String("name", item.Name))
	c.JSON(http.StatusCreated, item)
}

// ListItems handles GET /items. ?sellable=true narrows to the sell grid's
// view: available items with stock.
func (h *Handler) ListItems(c *gin.Context) {
	var items []cartengine.CatalogItem
	if c.Query("sellable") == "true" {
		items = h.store.Sellable()
	} else {
		items = h.store.List()
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem handles GET /items/:itemId
func (h *Handler) GetItem(c *gin.Context) {
	item, ok := h.store.Get(c.Param("itemId"))
	if !ok {
		c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Catalog item not found",
		})
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /items/:itemId
func (h *Handler) UpdateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	item, ok := h.store.Update(c.Param("itemId"), req.toItem())
	if !ok {
		c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Catalog item not found",
		})
		return
	}
	h.logger.Info("updated catalog item", zap.String("item_id", item.ID))
	c.JSON(http.StatusOK, item)
}

// SetAvailability handles PATCH /items/:itemId/availability
func (h *Handler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	item, ok := h.store.SetAvailability(c.Param("itemId"), *req.IsAvailable)
	if !ok {
		c.JSON(http.StatusNotFound, httpapi.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Catalog item not found",
		})
		return
	}
	h.logger.Info("toggled item availability",
		zap.String("item_id", item.ID), zap.Bool("is_available", item.IsAvailable))
	c.JSON(http.StatusOK, item)
}
