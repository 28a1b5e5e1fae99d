package analytics

import (
	"context"
	"sort"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type UserActivity struct {
	TotalOrders          int             `json:"total_orders"`
	TotalSpent           float64         `json:"total_spent"`
	AvgOrderValue        float64         `json:"avg_order_value"`
	AvgDaysBetweenOrders float64         `json:"avg_days_between_orders"`
	RecentOrders         []*models.Order `json:"recent_orders"`
}

// UserActivity summarizes one customer's ordering behavior for the admin
// view: totals, cadence and the five most recent orders.
func (s *Service) UserActivity(ctx context.Context, userID string) (*UserActivity, error) {
	orders, err := s.orders.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	activity := &UserActivity{TotalOrders: len(orders)}
	for _, order := range orders {
		activity.TotalSpent += order.TotalPrice
	}
	if len(orders) > 0 {
		activity.AvgOrderValue = activity.TotalSpent / float64(len(orders))
	}

	if len(orders) > 1 {
		sorted := append([]*models.Order{}, orders...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
		var totalDays float64
		for i := 1; i < len(sorted); i++ {
			totalDays += sorted[i].CreatedAt.Sub(sorted[i-1].CreatedAt).Hours() / 24
		}
		activity.AvgDaysBetweenOrders = totalDays / float64(len(sorted)-1)
	}

	recent := len(orders)
	if recent > 5 {
		recent = 5
	}
	activity.RecentOrders = orders[:recent]
	return activity, nil
}
