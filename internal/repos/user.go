package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error)
	GetByOIDCID(ctx context.Context, tx *gorm.DB, oidcID string) (*models.User, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.User, error)
	SetRole(ctx context.Context, tx *gorm.DB, userID string, role models.Role) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := r.conn(tx).WithContext(ctx).Create(user).Error; err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "creating user %s", user.UserID)
	}
	return nil
}

func (r *userRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := r.conn(tx).WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "user %s not found", userID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading user %s", userID)
	}
	return &user, nil
}

func (r *userRepo) GetByOIDCID(ctx context.Context, tx *gorm.DB, oidcID string) (*models.User, error) {
	var user models.User
	err := r.conn(tx).WithContext(ctx).Where("oidc_id = ?", oidcID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "no user for subject")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "loading user by subject")
	}
	return &user, nil
}

func (r *userRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	var users []*models.User
	if err := r.conn(tx).WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "listing users")
	}
	return users, nil
}

func (r *userRepo) SetRole(ctx context.Context, tx *gorm.DB, userID string, role models.Role) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("role", role)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindPersistence, res.Error, "updating role for user %s", userID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "user %s not found", userID)
	}
	return nil
}
