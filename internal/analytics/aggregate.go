// Package analytics materializes read-only summaries, forecasts and customer
// segments over the order history. Everything here is computed on demand per
// request; nothing feeds back into the operational path.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type Service struct {
	orders repos.OrderRepo
	users  repos.UserRepo
	log    *logger.Logger
}

func NewService(orders repos.OrderRepo, users repos.UserRepo, baseLog *logger.Logger) *Service {
	return &Service{orders: orders, users: users, log: baseLog.With("component", "AnalyticsService")}
}

type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

type DateValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type OrderMetrics struct {
	TotalOrders   int                        `json:"total_orders"`
	TotalRevenue  float64                    `json:"total_revenue"`
	AvgOrderValue float64                    `json:"avg_order_value"`
	TotalWeightKg float64                    `json:"total_weight_kg"`
	StatusCounts  map[models.OrderStatus]int `json:"status_counts"`
	DailyOrders   []DateCount                `json:"daily_orders"`
	DailyRevenue  []DateValue                `json:"daily_revenue"`
}

type UserMetrics struct {
	TotalUsers    int         `json:"total_users"`
	VerifiedUsers int         `json:"verified_users"`
	AdminUsers    int         `json:"admin_users"`
	DailySignups  []DateCount `json:"daily_signups"`
}

type DailyMetric struct {
	Date          time.Time `json:"date"`
	OrderCount    int       `json:"order_count"`
	Revenue       float64   `json:"revenue"`
	AvgOrderValue float64   `json:"avg_order_value"`
	WeightKg      float64   `json:"weight_kg"`
}

type HourMetric struct {
	Hour       int     `json:"hour"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

type WeekdayMetric struct {
	Weekday    time.Weekday `json:"weekday"`
	OrderCount int          `json:"order_count"`
	Revenue    float64      `json:"revenue"`
}

type ProductMetric struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

type AdvancedMetrics struct {
	Daily    []DailyMetric   `json:"daily_metrics"`
	Hourly   []HourMetric    `json:"hourly_metrics"`
	Weekday  []WeekdayMetric `json:"weekday_metrics"`
	Products []ProductMetric `json:"product_popularity"`
}

// AggregateOrders summarizes the full order set. An empty set yields zeroed
// metrics, never an error.
func (s *Service) AggregateOrders(ctx context.Context) (*OrderMetrics, error) {
	orders, err := s.orders.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	metrics := &OrderMetrics{
		TotalOrders:  len(orders),
		StatusCounts: map[models.OrderStatus]int{},
	}
	dailyCounts := map[time.Time]int{}
	dailyRevenue := map[time.Time]float64{}
	for _, order := range orders {
		metrics.TotalRevenue += order.TotalPrice
		metrics.TotalWeightKg += order.TotalWeightKg
		metrics.StatusCounts[order.Status]++
		day := dayOf(order.CreatedAt)
		dailyCounts[day]++
		dailyRevenue[day] += order.TotalPrice
	}
	if len(orders) > 0 {
		metrics.AvgOrderValue = metrics.TotalRevenue / float64(len(orders))
	}
	metrics.DailyOrders = sortedCounts(dailyCounts)
	metrics.DailyRevenue = sortedValues(dailyRevenue)
	return metrics, nil
}

// AggregateUsers summarizes the user base with per-day signup counts.
func (s *Service) AggregateUsers(ctx context.Context) (*UserMetrics, error) {
	users, err := s.users.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	metrics := &UserMetrics{TotalUsers: len(users)}
	signups := map[time.Time]int{}
	for _, user := range users {
		if user.EmailVerified {
			metrics.VerifiedUsers++
		}
		if user.IsAdmin() {
			metrics.AdminUsers++
		}
		signups[dayOf(user.CreatedAt)]++
	}
	metrics.DailySignups = sortedCounts(signups)
	return metrics, nil
}

// AggregateAdvanced derives calendar groupings (day, hour, weekday) and
// exploded per-product totals from the full order set.
func (s *Service) AggregateAdvanced(ctx context.Context) (*AdvancedMetrics, error) {
	orders, err := s.orders.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	daily := map[time.Time]*DailyMetric{}
	hourly := map[int]*HourMetric{}
	weekday := map[time.Weekday]*WeekdayMetric{}
	type productAcc struct {
		quantity   int
		priceSum   float64
		priceCount int
	}
	products := map[string]*productAcc{}

	for _, order := range orders {
		day := dayOf(order.CreatedAt)
		dm, ok := daily[day]
		if !ok {
			dm = &DailyMetric{Date: day}
			daily[day] = dm
		}
		dm.OrderCount++
		dm.Revenue += order.TotalPrice
		dm.WeightKg += order.TotalWeightKg

		hour := order.CreatedAt.Hour()
		hm, ok := hourly[hour]
		if !ok {
			hm = &HourMetric{Hour: hour}
			hourly[hour] = hm
		}
		hm.OrderCount++
		hm.Revenue += order.TotalPrice

		wd := order.CreatedAt.Weekday()
		wm, ok := weekday[wd]
		if !ok {
			wm = &WeekdayMetric{Weekday: wd}
			weekday[wd] = wm
		}
		wm.OrderCount++
		wm.Revenue += order.TotalPrice

		for _, item := range order.Items {
			acc, ok := products[item.Name]
			if !ok {
				acc = &productAcc{}
				products[item.Name] = acc
			}
			acc.quantity += item.Quantity
			acc.priceSum += item.Price
			acc.priceCount++
		}
	}

	metrics := &AdvancedMetrics{}
	for _, dm := range daily {
		if dm.OrderCount > 0 {
			dm.AvgOrderValue = dm.Revenue / float64(dm.OrderCount)
		}
		metrics.Daily = append(metrics.Daily, *dm)
	}
	sort.Slice(metrics.Daily, func(i, j int) bool { return metrics.Daily[i].Date.Before(metrics.Daily[j].Date) })

	for _, hm := range hourly {
		metrics.Hourly = append(metrics.Hourly, *hm)
	}
	sort.Slice(metrics.Hourly, func(i, j int) bool { return metrics.Hourly[i].Hour < metrics.Hourly[j].Hour })

	for _, wm := range weekday {
		metrics.Weekday = append(metrics.Weekday, *wm)
	}
	sort.Slice(metrics.Weekday, func(i, j int) bool { return metrics.Weekday[i].Weekday < metrics.Weekday[j].Weekday })

	for name, acc := range products {
		metrics.Products = append(metrics.Products, ProductMetric{
			Name:     name,
			Quantity: acc.quantity,
			AvgPrice: acc.priceSum / float64(acc.priceCount),
		})
	}
	sort.Slice(metrics.Products, func(i, j int) bool {
		if metrics.Products[i].Quantity != metrics.Products[j].Quantity {
			return metrics.Products[i].Quantity > metrics.Products[j].Quantity
		}
		return metrics.Products[i].Name < metrics.Products[j].Name
	})

	return metrics, nil
}

func sortedCounts(m map[time.Time]int) []DateCount {
	out := make([]DateCount, 0, len(m))
	for date, count := range m {
		out = append(out, DateCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func sortedValues(m map[time.Time]float64) []DateValue {
	out := make([]DateValue, 0, len(m))
	for date, value := range m {
		out = append(out, DateValue{Date: date, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
