package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/analytics"
)

type AnalyticsHandler struct {
	service *analytics.Service
}

func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GET /api/admin/analytics/orders
func (h *AnalyticsHandler) OrderMetrics(c *gin.Context) {
	metrics, err := h.service.AggregateOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GET /api/admin/analytics/users
func (h *AnalyticsHandler) UserMetrics(c *gin.Context) {
	metrics, err := h.service.AggregateUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GET /api/admin/analytics/advanced
func (h *AnalyticsHandler) AdvancedMetrics(c *gin.Context) {
	metrics, err := h.service.AggregateAdvanced(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GET /api/admin/analytics/forecast?model=holt_winters&horizon=30
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	model := analytics.ForecastModel(c.DefaultQuery("model", string(analytics.ModelHoltWinters)))

	horizon := analytics.DefaultHorizonDays
	if raw := c.Query("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "horizon must be an integer"})
			return
		}
		horizon = parsed
	}

	forecast, err := h.service.Forecast(c.Request.Context(), horizon, model)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// GET /api/admin/analytics/segments
func (h *AnalyticsHandler) Segments(c *gin.Context) {
	segments, err := h.service.Segment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, segments)
}

// GET /api/admin/analytics/users/:user_id/activity
func (h *AnalyticsHandler) UserActivity(c *gin.Context) {
	activity, err := h.service.UserActivity(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
