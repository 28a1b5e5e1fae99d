package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type ShippingPlanRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.ShippingPlan, error)
	// ListEligible returns plans whose weight band contains totalWeight.
	ListEligible(ctx context.Context, tx *gorm.DB, totalWeight float64) ([]*models.ShippingPlan, error)
}

type shippingPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShippingPlanRepo(db *gorm.DB, baseLog *logger.Logger) ShippingPlanRepo {
	return &shippingPlanRepo{db: db, log: baseLog.With("repo", "ShippingPlanRepo")}
}

func (r *shippingPlanRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *shippingPlanRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.ShippingPlan, error) {
	var plans []*models.ShippingPlan
	if err := r.conn(tx).WithContext(ctx).Order("min_weight").Find(&plans).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing shipping plans")
	}
	return plans, nil
}

func (r *shippingPlanRepo) ListEligible(ctx context.Context, tx *gorm.DB, totalWeight float64) ([]*models.ShippingPlan, error) {
	var plans []*models.ShippingPlan
	if err := r.conn(tx).WithContext(ctx).
		Where("min_weight <= ? AND max_weight >= ?", totalWeight, totalWeight).
		Order("rate_per_kg").
		Find(&plans).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing eligible shipping plans")
	}
	return plans, nil
}
