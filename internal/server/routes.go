package server

import (
	"instshop/internal/config"
	"instshop/internal/handler"
	"instshop/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Item    *handler.ItemHandler
	Basket  *handler.BasketHandler
	Order   *handler.OrderHandler
	Webhook *handler.WebhookHandler
	Auth    *handler.AuthHandler
}

// RegisterRoutes は全ルートを登録する。
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, logger zerolog.Logger, h Handlers) {
	h.Item.RegisterRoutes(e)
	h.Webhook.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, cfg, userRepo, logger)
	h.Basket.RegisterRoutes(e, cfg, userRepo, logger)
	h.Order.RegisterRoutes(e, cfg, userRepo, logger)
}
