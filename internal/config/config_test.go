package config_test

import (
	"testing"

	"instshop/internal/config"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
}

// POSTGRES_*からDSNを組み立てる
func TestLoad_BuildsDSNFromComponents(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "shopdb")
	t.Setenv("POSTGRES_SSLMODE", "require")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "host=db.internal port=5433 user=shop password=pw dbname=shopdb sslmode=require", cfg.DatabaseDSN)
}

// DATABASE_URLがあれば最優先
func TestLoad_DatabaseURLWins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://shop:pw@db.internal:5433/shopdb")
	t.Setenv("POSTGRES_HOST", "ignored")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "postgres://shop:pw@db.internal:5433/shopdb", cfg.DatabaseDSN)
}

// 必須の環境変数が無ければ起動させない
func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}
