package model

import "time"

// バスケットの明細。(basket, item, size, color)で一意
// 追加時点の価格を必ず保存
type BasketItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BasketID          int64     `gorm:"not null;index;uniqueIndex:idx_basket_item_triple" json:"basket_id"`
	ItemID            int64     `gorm:"not null;index;uniqueIndex:idx_basket_item_triple" json:"item_id"`
	SizeID            int64     `gorm:"not null;uniqueIndex:idx_basket_item_triple" json:"size_id"`
	ColorID           int64     `gorm:"not null;uniqueIndex:idx_basket_item_triple" json:"color_id"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
