package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/abtest"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/auth"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type ABTestHandler struct {
	registry *abtest.Registry
}

func NewABTestHandler(registry *abtest.Registry) *ABTestHandler {
	return &ABTestHandler{registry: registry}
}

type CreateABTestRequest struct {
	Name         string   `json:"name" binding:"required"`
	Variants     []string `json:"variants" binding:"required"`
	TargetMetric string   `json:"target_metric" binding:"required"`
	DurationDays int      `json:"duration_days" binding:"required,gt=0"`
}

// POST /api/admin/abtests
func (h *ABTestHandler) Create(c *gin.Context) {
	var req CreateABTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	test, err := h.registry.CreateTest(c.Request.Context(), req.Name, req.Variants, models.TargetMetric(req.TargetMetric), req.DurationDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

// GET /api/admin/abtests
func (h *ABTestHandler) ListActive(c *gin.Context) {
	tests, err := h.registry.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

// POST /api/abtests/:test_id/assignment returns the caller's variant,
// creating the assignment on first call.
func (h *ABTestHandler) Assign(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	variant, err := h.registry.AssignVariant(c.Request.Context(), user.UserID, c.Param("test_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"test_id": c.Param("test_id"), "variant": variant})
}

type CompleteABTestRequest struct {
	Results map[string]float64 `json:"results" binding:"required"`
}

// POST /api/admin/abtests/:test_id/complete
func (h *ABTestHandler) Complete(c *gin.Context) {
	var req CompleteABTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	test, err := h.registry.Complete(c.Request.Context(), c.Param("test_id"), req.Results)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}
