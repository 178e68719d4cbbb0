package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDSNでDBに接続して *gorm.DB を返す。
// DSNの組み立てはconfig側（DATABASE_URLまたはPOSTGRES_*）
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
