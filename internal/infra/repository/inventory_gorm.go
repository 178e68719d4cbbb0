package repository

import (
	"context"
	"errors"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// (item,size,color)の在庫行を取得
func (r *InventoryGormRepository) FindByTriple(ctx context.Context, itemID, sizeID, colorID int64) (model.InventoryRecord, error) {
	var rec model.InventoryRecord

	err := r.db.WithContext(ctx).
		Where("item_id = ? AND size_id = ? AND color_id = ?", itemID, sizeID, colorID).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.InventoryRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return model.InventoryRecord{}, err
	}
	return rec, nil
}

func (r *InventoryGormRepository) ListByItemID(ctx context.Context, itemID int64) ([]model.InventoryRecord, error) {
	var recs []model.InventoryRecord

	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id asc").
		Find(&recs).Error; err != nil {
		return []model.InventoryRecord{}, err
	}
	return recs, nil
}

// 在庫が足りるときだけ減らす
// 条件付きUPDATE1本なので同時リクエストでも売り越さない
func (r *InventoryGormRepository) Reserve(ctx context.Context, itemID, sizeID, colorID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.InventoryRecord{}).
		Where("item_id = ? AND size_id = ? AND color_id = ? AND quantity >= ?", itemID, sizeID, colorID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（明細削除・数量減）
func (r *InventoryGormRepository) Release(ctx context.Context, itemID, sizeID, colorID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.InventoryRecord{}).
		Where("item_id = ? AND size_id = ? AND color_id = ?", itemID, sizeID, colorID).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
