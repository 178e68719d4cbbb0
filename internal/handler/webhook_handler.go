package handler

import (
	"errors"
	"io"
	"net/http"

	"instshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /webhook のHTTP。Stripeからの通知専用
type WebhookHandler struct {
	parser usecase.PaymentEventParser
	uc     *usecase.WebhookUsecase
}

// DI
func NewWebhookHandler(parser usecase.PaymentEventParser, uc *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{parser: parser, uc: uc}
}

// /webhook を登録。認証ミドルウェアは通さない（署名検証が認証）
func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhook", h.handle)
}

func (h *WebhookHandler) handle(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	ev, err := h.parser.ParseEvent(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, usecase.ErrBadWebhookRequest) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid webhook request"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	if err := h.uc.HandleEvent(c.Request().Context(), ev); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
