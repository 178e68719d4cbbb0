package auth

import (
	"context"
	"errors"
	"strings"

	"instshop/internal/repository"
)

// トークンが無効（存在しない・確認済み）
var ErrInvalidVerificationToken = errors.New("invalid verification token")

// メール確認。リンクのトークンでユーザーを有効化する
type VerifyEmailUsecase struct {
	userRepo repository.UserRepository
}

// DI
func NewVerifyEmailUsecase(userRepo repository.UserRepository) *VerifyEmailUsecase {
	return &VerifyEmailUsecase{userRepo: userRepo}
}

func (u *VerifyEmailUsecase) Execute(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidVerificationToken
	}

	user, err := u.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidVerificationToken
		}
		return err
	}

	//確認済みに。トークンは消して再利用不可にする
	user.IsEmailVerified = true
	user.VerificationToken = nil

	return u.userRepo.Update(ctx, user)
}
