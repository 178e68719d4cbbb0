package repository

import (
	"context"
	"time"

	"instshop/internal/domain/model"
)

// パスワード再設定トークン
type PasswordResetRepository interface {
	Create(ctx context.Context, reset model.PasswordReset) (model.PasswordReset, error)

	//未使用・期限内のトークンを1件取得。無ければErrNotFound
	FindValidByToken(ctx context.Context, token string, now time.Time) (model.PasswordReset, error)
	MarkUsed(ctx context.Context, resetID int64, usedAt time.Time) error
}
