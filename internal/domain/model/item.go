package model

import "time"

// 価格は最小通貨単位（セント）のint64で持つ
type Item struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"type:varchar(100);not null;index" json:"name"`
	Brand      string `gorm:"type:varchar(100)" json:"brand"`
	Fabric     string `gorm:"type:varchar(100)" json:"fabric"`
	Price      int64  `gorm:"not null" json:"price"`
	SalePrice  *int64 `json:"sale_price"`
	CategoryID int64  `gorm:"not null;index" json:"category"`

	//セール対象か
	Sale bool `gorm:"not null;default:false" json:"sale"`

	DateAdded time.Time `gorm:"not null;autoCreateTime" json:"date_added"`
}
