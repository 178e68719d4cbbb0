package model

// サイズ（M / L など）
type ItemSize struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Size string `gorm:"type:varchar(100);not null;uniqueIndex" json:"size"`
}

// カラー（Red / Black など）
type ItemColor struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Color string `gorm:"type:varchar(100);not null;uniqueIndex" json:"color"`
}
