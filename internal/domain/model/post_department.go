package model

// 受け取り郵便支店
type PostDepartment struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	City    string `gorm:"type:varchar(100);not null" json:"city"`
	State   string `gorm:"type:varchar(100);not null" json:"state"`
	Address string `gorm:"type:text;not null" json:"address"`
}
