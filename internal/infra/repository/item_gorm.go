package repository

import (
	"context"
	"errors"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// 一覧（size/color/brand/sale/in_stockフィルタ＋並び替え）
func (r *ItemGormRepository) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, error) {
	query := r.db.WithContext(ctx).Model(&model.Item{})

	//size/colorはラベルで在庫行からJOINで絞る
	if q.Size != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM inventory_records ir JOIN item_sizes s ON s.id = ir.size_id WHERE ir.item_id = items.id AND s.size = ?)",
			q.Size,
		)
	}
	if q.Color != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM inventory_records ir JOIN item_colors c ON c.id = ir.color_id WHERE ir.item_id = items.id AND c.color = ?)",
			q.Color,
		)
	}
	if q.Brand != "" {
		query = query.Where("brand = ?", q.Brand)
	}
	if q.Sale != nil {
		query = query.Where("sale = ?", *q.Sale)
	}
	if q.InStock != nil {
		sub := "EXISTS (SELECT 1 FROM inventory_records ir WHERE ir.item_id = items.id AND ir.quantity > 0)"
		if *q.InStock {
			query = query.Where(sub)
		} else {
			query = query.Where("NOT " + sub)
		}
	}

	switch q.Ordering {
	case "newest":
		query = query.Order("id desc")
	case "cheaper":
		query = query.Order("price asc")
	case "exp":
		query = query.Order("price desc")
	default:
		query = query.Order("id asc")
	}

	var items []model.Item
	if err := query.Find(&items).Error; err != nil {
		return []model.Item{}, err
	}
	return items, nil
}

func (r *ItemGormRepository) FindByID(ctx context.Context, itemID int64) (model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (r *ItemGormRepository) FindByName(ctx context.Context, name string) (model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// サイズ・カラーのラベル検索
type ItemOptionGormRepository struct {
	db *gorm.DB
}

func NewItemOptionGormRepository(db *gorm.DB) *ItemOptionGormRepository {
	return &ItemOptionGormRepository{db: db}
}

func (r *ItemOptionGormRepository) FindSizeByLabel(ctx context.Context, label string) (model.ItemSize, error) {
	var size model.ItemSize
	err := r.db.WithContext(ctx).Where("size = ?", label).First(&size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ItemSize{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ItemSize{}, err
	}
	return size, nil
}

func (r *ItemOptionGormRepository) FindColorByLabel(ctx context.Context, label string) (model.ItemColor, error) {
	var color model.ItemColor
	err := r.db.WithContext(ctx).Where("color = ?", label).First(&color).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ItemColor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ItemColor{}, err
	}
	return color, nil
}

func (r *ItemOptionGormRepository) FindSizeByID(ctx context.Context, sizeID int64) (model.ItemSize, error) {
	var size model.ItemSize
	err := r.db.WithContext(ctx).Where("id = ?", sizeID).First(&size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ItemSize{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ItemSize{}, err
	}
	return size, nil
}

func (r *ItemOptionGormRepository) FindColorByID(ctx context.Context, colorID int64) (model.ItemColor, error) {
	var color model.ItemColor
	err := r.db.WithContext(ctx).Where("id = ?", colorID).First(&color).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ItemColor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ItemColor{}, err
	}
	return color, nil
}
