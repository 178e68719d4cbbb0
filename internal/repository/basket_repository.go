package repository

import (
	"context"

	"instshop/internal/domain/model"
)

type BasketRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Basket, error)
	FindByUserID(ctx context.Context, userID int64) (model.Basket, error)

	//明細を全削除（バスケット行自体は残す）
	Clear(ctx context.Context, basketID int64) error
}

type BasketItemRepository interface {
	ListByBasketID(ctx context.Context, basketID int64) ([]model.BasketItem, error)
	FindByID(ctx context.Context, basketItemID int64) (model.BasketItem, error)

	// 同一(item,size,color)はプラス
	UpsertByTriple(ctx context.Context, basketID int64, itemID, sizeID, colorID int64, addQty int64, unitPriceSnapshot int64) (model.BasketItem, error)
	UpdateQuantity(ctx context.Context, basketItemID int64, qty int64) error
	DeleteByID(ctx context.Context, basketItemID int64) error
	IsOwnedByUser(ctx context.Context, basketItemID int64, userID int64) (bool, error)
}
