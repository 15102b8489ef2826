package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/server/http/dto"
)

// OrderHandler manages buyer and seller order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "items must be a non-empty list")
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentIdentity(c), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OrderEnvelope{Order: toOrderResponse(order)})
}

// Buyer handles GET /api/orders/buyer.
func (h *OrderHandler) Buyer(c *gin.Context) {
	order, err := h.facade.BuyerOrder(c.Request.Context(), CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: toOrderResponse(order)})
}

// Seller handles GET /api/orders/seller.
func (h *OrderHandler) Seller(c *gin.Context) {
	orders, err := h.facade.SellerOrders(c.Request.Context(), CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(orders))
}

// Advance handles PUT /api/orders/:id/next-stage.
func (h *OrderHandler) Advance(c *gin.Context) {
	key, ok := orderKey(c)
	if !ok {
		return
	}

	order, err := h.facade.AdvanceStage(c.Request.Context(), CurrentIdentity(c), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: toOrderResponse(order)})
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	key, ok := orderKey(c)
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), CurrentIdentity(c), key); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Details handles GET /api/orders/:id/details and its admin alias.
func (h *OrderHandler) Details(c *gin.Context) {
	key, ok := orderKey(c)
	if !ok {
		return
	}

	details, err := h.facade.OrderDetails(c.Request.Context(), CurrentIdentity(c), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailsResponse(details))
}
