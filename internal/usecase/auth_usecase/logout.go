package auth

import (
	"context"

	"instshop/internal/repository"
)

// ログアウト。全端末のリフレッシュトークンを消し、
// token_versionを上げて発行済みアクセストークンも無効化する
type LogoutUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
}

// DI
func NewLogoutUsecase(userRepo repository.UserRepository, rtRepo repository.RefreshTokenRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo, rtRepo: rtRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	if err := u.rtRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return err
	}
	return u.userRepo.IncrementTokenVersion(ctx, userID)
}
