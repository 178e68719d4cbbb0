package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"instshop/internal/domain/model"
	"instshop/internal/notification"
	"instshop/internal/repository"

	"github.com/rs/zerolog"
)

// トークンが無効（存在しない・期限切れ・使用済み）
var ErrInvalidResetToken = errors.New("invalid reset token")

// RequestPasswordResetUsecase は再設定リンクの発行。
// メールの存在は漏らさない（見つからなくても成功扱い）
type RequestPasswordResetUsecase struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	idGen     IDGenerator
	clock     Clock
	queue     notification.Queue
	resetTTL  time.Duration
	logger    zerolog.Logger
}

// DI
func NewRequestPasswordResetUsecase(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	idGen IDGenerator,
	clock Clock,
	queue notification.Queue,
	resetTTL time.Duration,
	logger zerolog.Logger,
) *RequestPasswordResetUsecase {
	return &RequestPasswordResetUsecase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		idGen:     idGen,
		clock:     clock,
		queue:     queue,
		resetTTL:  resetTTL,
		logger:    logger,
	}
}

func (u *RequestPasswordResetUsecase) Execute(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !isValidEmailFormat(email) {
		return ErrInvalidEmailFormat
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			//存在しないメールでも同じ応答
			return nil
		}
		return err
	}

	token := u.idGen.NewID()
	now := u.clock.Now()

	if _, err := u.resetRepo.Create(ctx, model.PasswordReset{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: now.Add(u.resetTTL),
	}); err != nil {
		return err
	}

	if err := u.queue.Enqueue(ctx, notification.Task{
		Kind:  notification.TaskRecoveryEmail,
		Email: user.Email,
		Token: token,
	}); err != nil {
		u.logger.Error().Err(err).Msg("failed to enqueue recovery email")
	}
	return nil
}

// ConfirmPasswordResetUsecase はトークン検証と新パスワード設定。
// 既存トークン・セッションはすべて失効させる
type ConfirmPasswordResetUsecase struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	rtRepo    repository.RefreshTokenRepository
	hasher    PasswordHasher
	clock     Clock
}

// DI
func NewConfirmPasswordResetUsecase(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	rtRepo repository.RefreshTokenRepository,
	hasher PasswordHasher,
	clock Clock,
) *ConfirmPasswordResetUsecase {
	return &ConfirmPasswordResetUsecase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		rtRepo:    rtRepo,
		hasher:    hasher,
		clock:     clock,
	}
}

func (u *ConfirmPasswordResetUsecase) Execute(ctx context.Context, token string, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < 12 {
		return ErrPasswordTooShort
	}
	if isWeakPassword(newPassword) {
		return ErrWeakPassword
	}

	now := u.clock.Now()

	reset, err := u.resetRepo.FindValidByToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	user, err := u.userRepo.FindByEmail(ctx, reset.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := u.resetRepo.MarkUsed(ctx, reset.ID, now); err != nil {
		return err
	}

	//発行済みアクセストークンとリフレッシュトークンを全部無効化
	if err := u.userRepo.IncrementTokenVersion(ctx, user.ID); err != nil {
		return err
	}
	return u.rtRepo.DeleteAllByUserID(ctx, user.ID)
}
