package model

import "time"

// 注文明細。購入時点のスナップショット
type OrderItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64     `gorm:"not null;index" json:"order_id"`
	ItemID            int64     `gorm:"not null;index" json:"item_id"`
	SizeID            int64     `gorm:"not null" json:"size_id"`
	ColorID           int64     `gorm:"not null" json:"color_id"`
	ItemNameSnapshot  string    `gorm:"type:varchar(100);not null" json:"name"`
	SizeLabel         string    `gorm:"type:varchar(100);not null" json:"size"`
	ColorLabel        string    `gorm:"type:varchar(100);not null" json:"color"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"price"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
