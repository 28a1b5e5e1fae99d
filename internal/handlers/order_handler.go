package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/auth"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/orders"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type OrderHandler struct {
	service  *orders.Service
	products repos.ProductRepo
}

func NewOrderHandler(service *orders.Service, products repos.ProductRepo) *OrderHandler {
	return &OrderHandler{service: service, products: products}
}

type CheckoutRequest struct {
	Items         []CartItemRequest `json:"items" binding:"required"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
}

// POST /api/orders
func (h *OrderHandler) Checkout(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	lines, err := resolveCart(ctx, h.products, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.service.PlaceOrder(ctx, lines, user, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GET /api/orders lists the caller's own orders, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.service.ListForUser(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/orders/:order_id
func (h *OrderHandler) Get(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	order, err := h.service.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UserID != user.UserID && !user.IsAdmin() {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// POST /api/orders/:order_id/pay
func (h *OrderHandler) Pay(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	order, err := h.service.Pay(c.Request.Context(), c.Param("order_id"), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /api/admin/orders/:order_id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("order_id"), models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /api/admin/orders?status=pending
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	status := models.OrderStatus(c.DefaultQuery("status", string(models.OrderPending)))
	list, err := h.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/orders/pending-weight
func (h *OrderHandler) PendingWeight(c *gin.Context) {
	weight, err := h.service.PendingWeight(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_weight_kg": weight})
}

type AssignPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// POST /api/admin/orders/:order_id/shipping-plan
func (h *OrderHandler) AssignShippingPlan(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.service.AssignShippingPlan(c.Request.Context(), c.Param("order_id"), req.PlanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
