package model

import "time"

type PaymentType string

const (
	PaymentTypeCard           PaymentType = "card"
	PaymentTypeCashOnDelivery PaymentType = "cash_on_delivery"
)

// 注文。明細は作成後に変更しない
// is_paidはfalse→trueに一度だけ遷移する
type Order struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int64       `gorm:"not null;index" json:"user_id"`
	PaymentType      PaymentType `gorm:"type:varchar(20);not null" json:"payment_type"`
	IsPaid           bool        `gorm:"not null;default:false" json:"is_paid"`
	CheckoutURL      string      `gorm:"type:text" json:"checkout_url"`
	PostDepartmentID int64       `gorm:"not null" json:"post_department_id"`
	CreatedAt        time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
