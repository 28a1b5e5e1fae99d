package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/auth"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/consolidation"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type TruckHandler struct {
	trucks   repos.TruckRepo
	products repos.ProductRepo
	engine   *consolidation.Engine
}

func NewTruckHandler(trucks repos.TruckRepo, products repos.ProductRepo, engine *consolidation.Engine) *TruckHandler {
	return &TruckHandler{trucks: trucks, products: products, engine: engine}
}

// truckView decorates a truck with the derived capacity figures the
// share-shipping page renders.
type truckView struct {
	*models.Truck
	RemainingKg float64 `json:"remaining_kg"`
	FillPercent float64 `json:"fill_percent"`
}

func viewOf(truck *models.Truck) truckView {
	view := truckView{Truck: truck, RemainingKg: truck.RemainingCapacity()}
	if truck.MaxWeight > 0 {
		view.FillPercent = 100 * truck.CurrentWeight / truck.MaxWeight
	}
	return view
}

// GET /api/trucks
func (h *TruckHandler) List(c *gin.Context) {
	trucks, err := h.trucks.List(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]truckView, 0, len(trucks))
	for _, truck := range trucks {
		views = append(views, viewOf(truck))
	}
	c.JSON(http.StatusOK, views)
}

// GET /api/trucks/:truck_id
func (h *TruckHandler) Get(c *gin.Context) {
	truck, err := h.trucks.GetByTruckID(c.Request.Context(), nil, c.Param("truck_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(truck))
}

type JoinTruckRequest struct {
	Items []CartItemRequest `json:"items" binding:"required"`
}

// POST /api/trucks/:truck_id/join
func (h *TruckHandler) Join(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req JoinTruckRequest
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

	order, err := h.engine.JoinTruck(ctx, c.Param("truck_id"), lines, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// POST /api/admin/trucks/:truck_id/approve
func (h *TruckHandler) Approve(c *gin.Context) {
	truck, err := h.engine.Approve(c.Request.Context(), c.Param("truck_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(truck))
}

// POST /api/admin/trucks/:truck_id/dispatch
func (h *TruckHandler) Dispatch(c *gin.Context) {
	if err := h.engine.Dispatch(c.Request.Context(), c.Param("truck_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "truck dispatched"})
}

// POST /api/admin/trucks/:truck_id/deliver
func (h *TruckHandler) Deliver(c *gin.Context) {
	if err := h.engine.Deliver(c.Request.Context(), c.Param("truck_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "truck delivered"})
}
