package repository

import (
	"context"
	"errors"

	"instshop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ItemListQuery struct {
	Size     string
	Color    string
	Brand    string
	Sale     *bool
	InStock  *bool
	Ordering string // newest / cheaper / exp
}

// 商品の永続化（保存・取得）だけを約束。
type ItemRepository interface {
	List(ctx context.Context, q ItemListQuery) ([]model.Item, error)
	FindByID(ctx context.Context, itemID int64) (model.Item, error)

	//バスケット追加は商品名で指定される
	FindByName(ctx context.Context, name string) (model.Item, error)
}

// サイズ・カラーをラベル文字列またはIDから引く
type ItemOptionRepository interface {
	FindSizeByLabel(ctx context.Context, label string) (model.ItemSize, error)
	FindColorByLabel(ctx context.Context, label string) (model.ItemColor, error)
	FindSizeByID(ctx context.Context, sizeID int64) (model.ItemSize, error)
	FindColorByID(ctx context.Context, colorID int64) (model.ItemColor, error)
}
