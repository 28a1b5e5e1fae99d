package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type TruckRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.Truck, error)
	GetByTruckID(ctx context.Context, tx *gorm.DB, truckID string) (*models.Truck, error)
	// ReserveCapacity atomically adds weightKg to the truck's current weight,
	// but only while the truck is collecting and the result stays within
	// max_weight. It reports whether the reservation took effect.
	ReserveCapacity(ctx context.Context, tx *gorm.DB, truckID string, weightKg float64) (bool, error)
	AppendItems(ctx context.Context, tx *gorm.DB, truckID string, items []models.TruckItem) error
	// Approve flips a collecting truck to approved, gated on
	// current_weight >= max_weight. Reports whether the transition happened.
	Approve(ctx context.Context, tx *gorm.DB, truckID string) (bool, error)
	SetStatus(ctx context.Context, tx *gorm.DB, truckID string, status models.TruckStatus) error
}

type truckRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTruckRepo(db *gorm.DB, baseLog *logger.Logger) TruckRepo {
	return &truckRepo{db: db, log: baseLog.With("repo", "TruckRepo")}
}

func (r *truckRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *truckRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Truck, error) {
	var trucks []*models.Truck
	if err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Order("truck_id").
		Find(&trucks).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing trucks")
	}
	return trucks, nil
}

func (r *truckRepo) GetByTruckID(ctx context.Context, tx *gorm.DB, truckID string) (*models.Truck, error) {
	var truck models.Truck
	err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("truck_id = ?", truckID).
		First(&truck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "truck %s not found", truckID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading truck %s", truckID)
	}
	return &truck, nil
}

func (r *truckRepo) ReserveCapacity(ctx context.Context, tx *gorm.DB, truckID string, weightKg float64) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Truck{}).
		Where("truck_id = ? AND status = ? AND current_weight + ? <= max_weight",
			truckID, models.TruckCollecting, weightKg).
		UpdateColumn("current_weight", gorm.Expr("current_weight + ?", weightKg))
	if res.Error != nil {
		return false, apperr.Wrap(apperr.KindPersistence, res.Error, "reserving capacity on truck %s", truckID)
	}
	return res.RowsAffected > 0, nil
}

func (r *truckRepo) AppendItems(ctx context.Context, tx *gorm.DB, truckID string, items []models.TruckItem) error {
	if len(items) == 0 {
		return nil
	}
	var truck models.Truck
	if err := r.conn(tx).WithContext(ctx).
		Select("id").
		Where("truck_id = ?", truckID).
		First(&truck).Error; err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "loading truck %s for manifest append", truckID)
	}
	for i := range items {
		items[i].TruckRef = truck.ID
	}
	if err := r.conn(tx).WithContext(ctx).Create(&items).Error; err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "appending manifest items to truck %s", truckID)
	}
	return nil
}

func (r *truckRepo) Approve(ctx context.Context, tx *gorm.DB, truckID string) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Truck{}).
		Where("truck_id = ? AND status = ? AND current_weight >= max_weight",
			truckID, models.TruckCollecting).
		UpdateColumn("status", models.TruckApproved)
	if res.Error != nil {
		return false, apperr.Wrap(apperr.KindPersistence, res.Error, "approving truck %s", truckID)
	}
	return res.RowsAffected > 0, nil
}

func (r *truckRepo) SetStatus(ctx context.Context, tx *gorm.DB, truckID string, status models.TruckStatus) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.Truck{}).
		Where("truck_id = ?", truckID).
		UpdateColumn("status", status)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindPersistence, res.Error, "updating truck %s status", truckID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "truck %s not found", truckID)
	}
	return nil
}
