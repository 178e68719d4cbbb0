package repository

import (
	"context"

	"instshop/internal/domain/model"
)

// 在庫台帳。読み→書きはここに閉じ込め、handler/usecaseから
// 生のread-modify-writeはさせない
type InventoryRepository interface {
	//(item,size,color)の在庫行を1件取得。無ければErrNotFound
	FindByTriple(ctx context.Context, itemID, sizeID, colorID int64) (model.InventoryRecord, error)

	//商品の在庫行を一覧（商品詳細のsize/color別残数に使う）
	ListByItemID(ctx context.Context, itemID int64) ([]model.InventoryRecord, error)

	//在庫が足りるときだけ減算。足りなければfalse
	Reserve(ctx context.Context, itemID, sizeID, colorID int64, qty int64) (bool, error)

	//在庫戻し（明細削除・数量減）
	Release(ctx context.Context, itemID, sizeID, colorID int64, qty int64) error
}
