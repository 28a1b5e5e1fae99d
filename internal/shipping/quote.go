// Package shipping prices standalone (non-pooled) shipments against the
// weight-banded rate tiers.
package shipping

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type Quote struct {
	Plan         *models.ShippingPlan `json:"plan"`
	WeightKg     float64              `json:"weight_kg"`
	Cost         decimal.Decimal      `json:"cost"`
	DeliveryTime string               `json:"delivery_time"`
}

type Service struct {
	plans repos.ShippingPlanRepo
	log   *logger.Logger
}

func NewService(plans repos.ShippingPlanRepo, baseLog *logger.Logger) *Service {
	return &Service{plans: plans, log: baseLog.With("component", "ShippingService")}
}

func (s *Service) ListPlans(ctx context.Context) ([]*models.ShippingPlan, error) {
	return s.plans.ListAll(ctx, nil)
}

// EligiblePlans returns every plan whose band contains the given weight.
func (s *Service) EligiblePlans(ctx context.Context, weightKg float64) ([]*models.ShippingPlan, error) {
	if weightKg <= 0 {
		return nil, apperr.New(apperr.KindValidation, "weight must be positive")
	}
	return s.plans.ListEligible(ctx, nil, weightKg)
}

// QuoteAll prices the shipment under each eligible plan, cheapest first.
// Money math runs in decimal and rounds half-up to cents.
func (s *Service) QuoteAll(ctx context.Context, weightKg float64) ([]Quote, error) {
	plans, err := s.EligiblePlans(ctx, weightKg)
	if err != nil {
		return nil, err
	}
	weight := decimal.NewFromFloat(weightKg)
	quotes := make([]Quote, 0, len(plans))
	for _, plan := range plans {
		cost := decimal.NewFromFloat(plan.RatePerKg).Mul(weight).Round(2)
		quotes = append(quotes, Quote{
			Plan:         plan,
			WeightKg:     weightKg,
			Cost:         cost,
			DeliveryTime: plan.DeliveryTime,
		})
	}
	return quotes, nil
}
