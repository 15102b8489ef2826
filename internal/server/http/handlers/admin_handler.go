package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/server/http/dto"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	facade OrderFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade OrderFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Orders handles GET /api/admin/orders.
func (h *AdminHandler) Orders(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context(), CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(orders))
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.facade.Stats(c.Request.Context(), CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(stats))
}

// AssociateBuyer handles PUT /api/admin/orders/:id/associate-buyer.
func (h *AdminHandler) AssociateBuyer(c *gin.Context) {
	key, ok := orderKey(c)
	if !ok {
		return
	}
	var req dto.AssociateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "buyerId is required")
		return
	}

	order, err := h.facade.AssociateBuyer(c.Request.Context(), CurrentIdentity(c), key, req.BuyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: toOrderResponse(order)})
}

// AssociateSeller handles PUT /api/admin/orders/:id/associate-seller.
func (h *AdminHandler) AssociateSeller(c *gin.Context) {
	key, ok := orderKey(c)
	if !ok {
		return
	}
	var req dto.AssociateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "sellerId is required")
		return
	}

	order, err := h.facade.AssociateSeller(c.Request.Context(), CurrentIdentity(c), key, req.SellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: toOrderResponse(order)})
}
