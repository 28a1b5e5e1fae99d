package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/shipping"
)

type ShippingHandler struct {
	service *shipping.Service
}

func NewShippingHandler(service *shipping.Service) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// GET /api/shipping/plans
func (h *ShippingHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GET /api/shipping/quotes?weight_kg=42.5
func (h *ShippingHandler) Quotes(c *gin.Context) {
	weight, err := strconv.ParseFloat(c.Query("weight_kg"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weight_kg must be a number"})
		return
	}

	quotes, err := h.service.QuoteAll(c.Request.Context(), weight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}
