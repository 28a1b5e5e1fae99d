package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*models.Order, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Order, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Order, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status models.OrderStatus) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status models.OrderStatus) error
	AssignShippingPlan(ctx context.Context, tx *gorm.DB, orderID, planID string) error
	SumWeightByStatus(ctx context.Context, tx *gorm.DB, status models.OrderStatus) (float64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if err := r.conn(tx).WithContext(ctx).Create(order).Error; err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "creating order %s", order.OrderID)
	}
	return nil
}

func (r *orderRepo) GetByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "order %s not found", orderID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading order %s", orderID)
	}
	return &order, nil
}

func (r *orderRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Order, error) {
	var orders []*models.Order
	if err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Order("created_at").
		Find(&orders).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing orders")
	}
	return orders, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Order, error) {
	var orders []*models.Order
	if err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing orders for user %s", userID)
	}
	return orders, nil
}

func (r *orderRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status models.OrderStatus) ([]*models.Order, error) {
	var orders []*models.Order
	if err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("status = ?", status).
		Order("created_at").
		Find(&orders).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing %s orders", status)
	}
	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status models.OrderStatus) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindPersistence, res.Error, "updating order %s status", orderID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "order %s not found", orderID)
	}
	return nil
}

func (r *orderRepo) AssignShippingPlan(ctx context.Context, tx *gorm.DB, orderID, planID string) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{"shipping_plan": planID, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindPersistence, res.Error, "assigning plan %s to order %s", planID, orderID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "order %s not found", orderID)
	}
	return nil
}

func (r *orderRepo) SumWeightByStatus(ctx context.Context, tx *gorm.DB, status models.OrderStatus) (float64, error) {
	var total float64
	err := r.conn(tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(total_weight_kg), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.KindPersistence, err, "summing %s order weight", status)
	}
	return total, nil
}
