package repository

import (
	"context"
	"errors"
	"time"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BasketGormRepository struct {
	db *gorm.DB
}

// DI
func NewBasketGormRepository(db *gorm.DB) *BasketGormRepository {
	return &BasketGormRepository{db: db}
}

// ユーザーのバスケットを取得し、無ければ作成
func (r *BasketGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	var basket model.Basket

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&basket).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		now := time.Now()
		newBasket := model.Basket{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newBasket).Error; err != nil {
			//同時作成でuniqueに弾かれたらもう一度探す
			retryErr := tx.Where("user_id = ?", userID).First(&basket).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		basket = newBasket
		return nil
	})

	if err != nil {
		return model.Basket{}, err
	}
	return basket, nil
}

func (r *BasketGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	var basket model.Basket

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&basket).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Basket{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Basket{}, err
	}
	return basket, nil
}

// 指定バスケットの明細を全削除
func (r *BasketGormRepository) Clear(ctx context.Context, basketID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var basket model.Basket
		if err := tx.Where("id = ?", basketID).First(&basket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		//basket_itemsを全削除
		if err := tx.Where("basket_id = ?", basketID).Delete(&model.BasketItem{}).Error; err != nil {
			return err
		}
		return nil
	})
}

// バスケット明細を一覧取得
func (r *BasketGormRepository) ListByBasketID(ctx context.Context, basketID int64) ([]model.BasketItem, error) {
	var items []model.BasketItem

	if err := r.db.WithContext(ctx).
		Where("basket_id = ?", basketID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.BasketItem{}, err
	}
	return items, nil
}

// 明細を取得
func (r *BasketGormRepository) FindByID(ctx context.Context, basketItemID int64) (model.BasketItem, error) {
	var item model.BasketItem

	err := r.db.WithContext(ctx).
		Where("id = ?", basketItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.BasketItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.BasketItem{}, err
	}
	return item, nil
}

// 同一(item,size,color)は数量加算
func (r *BasketGormRepository) UpsertByTriple(ctx context.Context, basketID int64, itemID, sizeID, colorID int64, addQty int64, unitPriceSnapshot int64) (model.BasketItem, error) {
	if addQty <= 0 {
		return model.BasketItem{}, errors.New("invalid quantity")
	}

	var out model.BasketItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.BasketItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("basket_id = ? AND item_id = ? AND size_id = ? AND color_id = ?",
				basketID, itemID, sizeID, colorID).
			First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := item.Quantity + addQty

			res := tx.Model(&model.BasketItem{}).
				Where("id = ?", item.ID).
				Update("quantity", newQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}

			item.Quantity = newQty
			out = item
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newItem := model.BasketItem{
			BasketID:          basketID,
			ItemID:            itemID,
			SizeID:            sizeID,
			ColorID:           colorID,
			Quantity:          addQty,
			UnitPriceSnapshot: unitPriceSnapshot,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}

		out = newItem
		return nil
	})

	if err != nil {
		return model.BasketItem{}, err
	}
	return out, nil
}

// 明細の数量を更新
func (r *BasketGormRepository) UpdateQuantity(ctx context.Context, basketItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.BasketItem{}).
		Where("id = ?", basketItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *BasketGormRepository) DeleteByID(ctx context.Context, basketItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.BasketItem{}, basketItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

//basketItemが、そのuserのバスケットに属しているかを判定

func (r *BasketGormRepository) IsOwnedByUser(ctx context.Context, basketItemID int64, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("basket_items").
		Joins("join baskets on baskets.id = basket_items.basket_id").
		Where("basket_items.id = ? AND baskets.user_id = ?", basketItemID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}
