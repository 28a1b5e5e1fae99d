package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type ProductRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Product, error)
	GetByProductID(ctx context.Context, tx *gorm.DB, productID string) (*models.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *productRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Product, error) {
	var products []*models.Product
	if err := r.conn(tx).WithContext(ctx).Order("product_id").Find(&products).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing products")
	}
	return products, nil
}

func (r *productRepo) GetByProductID(ctx context.Context, tx *gorm.DB, productID string) (*models.Product, error) {
	var product models.Product
	err := r.conn(tx).WithContext(ctx).Where("product_id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "product %s not found", productID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading product %s", productID)
	}
	return &product, nil
}
