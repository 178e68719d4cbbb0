package model

type DeliveryType string

const (
	DeliveryTypeNewPost DeliveryType = "new_post"
	DeliveryTypePickup  DeliveryType = "pickup"
)

// 配送先情報。注文と1対1
type DeliveryInfo struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64        `gorm:"not null;uniqueIndex" json:"order_id"`
	FullName     string       `gorm:"type:text;not null" json:"full_name"`
	Number       string       `gorm:"type:text;not null" json:"number"`
	Email        string       `gorm:"type:text" json:"email"`
	Comments     string       `gorm:"type:text" json:"comments"`
	DeliveryType DeliveryType `gorm:"type:varchar(20);not null" json:"delivery_type"`
}
