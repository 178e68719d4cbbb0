package repository

import (
	"context"
	"errors"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"

	"gorm.io/gorm"
)

type DeliveryInfoGormRepository struct {
	db *gorm.DB
}

func NewDeliveryInfoGormRepository(db *gorm.DB) *DeliveryInfoGormRepository {
	return &DeliveryInfoGormRepository{db: db}
}

func (r *DeliveryInfoGormRepository) Create(ctx context.Context, info model.DeliveryInfo) (model.DeliveryInfo, error) {
	if err := r.db.WithContext(ctx).Create(&info).Error; err != nil {
		return model.DeliveryInfo{}, err
	}
	return info, nil
}

func (r *DeliveryInfoGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.DeliveryInfo, error) {
	var info model.DeliveryInfo
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryInfo{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryInfo{}, err
	}
	return info, nil
}

type PostDepartmentGormRepository struct {
	db *gorm.DB
}

func NewPostDepartmentGormRepository(db *gorm.DB) *PostDepartmentGormRepository {
	return &PostDepartmentGormRepository{db: db}
}

func (r *PostDepartmentGormRepository) Create(ctx context.Context, dep model.PostDepartment) (model.PostDepartment, error) {
	if err := r.db.WithContext(ctx).Create(&dep).Error; err != nil {
		return model.PostDepartment{}, err
	}
	return dep, nil
}

func (r *PostDepartmentGormRepository) FindByID(ctx context.Context, depID int64) (model.PostDepartment, error) {
	var dep model.PostDepartment
	err := r.db.WithContext(ctx).Where("id = ?", depID).First(&dep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PostDepartment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PostDepartment{}, err
	}
	return dep, nil
}
