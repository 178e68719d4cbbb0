package repository

import (
	"context"
	"errors"
	"time"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"

	"gorm.io/gorm"
)

type PasswordResetGormRepository struct {
	db *gorm.DB
}

func NewPasswordResetGormRepository(db *gorm.DB) *PasswordResetGormRepository {
	return &PasswordResetGormRepository{db: db}
}

func (r *PasswordResetGormRepository) Create(ctx context.Context, reset model.PasswordReset) (model.PasswordReset, error) {
	if err := r.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return model.PasswordReset{}, err
	}
	return reset, nil
}

// 未使用・期限内のトークンだけ拾う
func (r *PasswordResetGormRepository) FindValidByToken(ctx context.Context, token string, now time.Time) (model.PasswordReset, error) {
	var reset model.PasswordReset

	err := r.db.WithContext(ctx).
		Where("token = ? AND used_at IS NULL AND expires_at > ?", token, now).
		First(&reset).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PasswordReset{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PasswordReset{}, err
	}
	return reset, nil
}

func (r *PasswordResetGormRepository) MarkUsed(ctx context.Context, resetID int64, usedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.PasswordReset{}).
		Where("id = ? AND used_at IS NULL", resetID).
		Update("used_at", usedAt)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
