package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type ABTestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, test *models.ABTest) error
	GetByTestID(ctx context.Context, tx *gorm.DB, testID string) (*models.ABTest, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status models.ABTestStatus) ([]*models.ABTest, error)
	GetAssignment(ctx context.Context, tx *gorm.DB, testRef uint, userID string) (*models.ABAssignment, error)
	AppendAssignment(ctx context.Context, tx *gorm.DB, assignment *models.ABAssignment) error
	SetStatus(ctx context.Context, tx *gorm.DB, testID string, status models.ABTestStatus) error
	SetResults(ctx context.Context, tx *gorm.DB, testID string, results map[string]float64) error
}

type abTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewABTestRepo(db *gorm.DB, baseLog *logger.Logger) ABTestRepo {
	return &abTestRepo{db: db, log: baseLog.With("repo", "ABTestRepo")}
}

func (r *abTestRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *abTestRepo) Create(ctx context.Context, tx *gorm.DB, test *models.ABTest) error {
	if err := r.conn(tx).WithContext(ctx).Create(test).Error; err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "creating test %s", test.TestID)
	}
	return nil
}

func (r *abTestRepo) GetByTestID(ctx context.Context, tx *gorm.DB, testID string) (*models.ABTest, error) {
	var test models.ABTest
	err := r.conn(tx).WithContext(ctx).
		Preload("Assignments").
		Where("test_id = ?", testID).
		First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "test %s not found", testID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading test %s", testID)
	}
	return &test, nil
}

func (r *abTestRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status models.ABTestStatus) ([]*models.ABTest, error) {
	var tests []*models.ABTest
	if err := r.conn(tx).WithContext(ctx).
		Preload("Assignments").
		Where("status = ?", status).
		Order("start_date").
		Find(&tests).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing %s tests", status)
	}
	return tests, nil
}

func (r *abTestRepo) GetAssignment(ctx context.Context, tx *gorm.DB, testRef uint, userID string) (*models.ABAssignment, error) {
	var assignment models.ABAssignment
	err := r.conn(tx).WithContext(ctx).
		Where("test_ref = ? AND user_id = ?", testRef, userID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading assignment for user %s", userID)
	}
	return &assignment, nil
}

func (r *abTestRepo) AppendAssignment(ctx context.Context, tx *gorm.DB, assignment *models.ABAssignment) error {
	if err := r.conn(tx).WithContext(ctx).Create(assignment).Error; err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "recording assignment for user %s", assignment.UserID)
	}
	return nil
}

func (r *abTestRepo) SetStatus(ctx context.Context, tx *gorm.DB, testID string, status models.ABTestStatus) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.ABTest{}).
		Where("test_id = ?", testID).
		UpdateColumn("status", status)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindPersistence, res.Error, "updating test %s status", testID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "test %s not found", testID)
	}
	return nil
}

func (r *abTestRepo) SetResults(ctx context.Context, tx *gorm.DB, testID string, results map[string]float64) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.ABTest{}).
		Where("test_id = ?", testID).
		Update("results", results)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindPersistence, res.Error, "recording results for test %s", testID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "test %s not found", testID)
	}
	return nil
}
