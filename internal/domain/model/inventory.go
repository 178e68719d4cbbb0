package model

// 在庫台帳。(item, size, color)ごとに1行
// quantityは未予約の在庫数。マイナスは絶対に入らない
type InventoryRecord struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID   int64 `gorm:"not null;index;uniqueIndex:idx_inventory_triple" json:"item_id"`
	SizeID   int64 `gorm:"not null;uniqueIndex:idx_inventory_triple" json:"size_id"`
	ColorID  int64 `gorm:"not null;uniqueIndex:idx_inventory_triple" json:"color_id"`
	Quantity int64 `gorm:"not null;default:0" json:"quantity"`
}
