package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"instshop/internal/domain/model"
	"instshop/internal/middleware"
	"instshop/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in guard tests")
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in guard tests")
}

func (m *UserRepoMock) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	panic("not used in guard tests")
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in guard tests")
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used in guard tests")
}

func invokeGuard(t *testing.T, userRepo repository.UserRepository, userID int64, tv int) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserIDKey, userID)
	c.Set(middleware.CtxTokenVersionKey, tv)

	nextCalled := false
	h := middleware.TokenVersionGuard(userRepo, zerolog.Nop())(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))

	return rec, nextCalled
}

// バージョンが一致すれば通す
func TestTokenVersionGuard_MatchPasses(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, TokenVersion: 3}, nil)

	rec, nextCalled := invokeGuard(t, userRepo, 1, 3)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// バージョン不一致は強制ログアウト扱い（401）
func TestTokenVersionGuard_StaleVersionRejected(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, TokenVersion: 4}, nil)

	rec, nextCalled := invokeGuard(t, userRepo, 1, 3)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ユーザーが消えていたら401
func TestTokenVersionGuard_UnknownUserRejected(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, repository.ErrUserNotFound)

	rec, nextCalled := invokeGuard(t, userRepo, 1, 3)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// DB障害は認証エラーにしない（500）
func TestTokenVersionGuard_DBErrorIsNotUnauthorized(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, errors.New("db down"))

	rec, nextCalled := invokeGuard(t, userRepo, 1, 3)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
