package handler

import (
	"net/http"
	"strconv"

	"instshop/internal/config"
	"instshop/internal/middleware"
	"instshop/internal/repository"
	"instshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuthJWTが入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	userID, ok := v.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// /basket, /basket-items のHTTP
type BasketHandler struct {
	uc *usecase.BasketUsecase
}

// DI
func NewBasketHandler(uc *usecase.BasketUsecase) *BasketHandler {
	return &BasketHandler{uc: uc}
}

type AddBasketItemRequest struct {
	Item     string `json:"item"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int64  `json:"quantity"`
}

type UpdateBasketItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// /basket, /basket-items を登録
func (h *BasketHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, logger zerolog.Logger) {
	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo, logger))

	g.GET("/basket", h.getBasket)
	g.POST("/basket-items", h.addItem)
	g.PATCH("/basket-items/:id", h.patchItem)
	g.DELETE("/basket-items/:id", h.deleteItem)
}

func (h *BasketHandler) getBasket(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetBasket(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) addItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddBasketItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddToBasket(c.Request().Context(), userID, usecase.AddToBasketInput{
		ItemName: req.Item,
		Size:     req.Size,
		Color:    req.Color,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *BasketHandler) patchItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateBasketItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateBasketItem(c.Request().Context(), userID, itemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteBasketItem(c.Request().Context(), userID, itemID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
