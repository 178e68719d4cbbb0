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

// /orders のHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type DeliveryInfoRequest struct {
	FullName     string `json:"full_name"`
	Number       string `json:"number"`
	Email        string `json:"email"`
	Comments     string `json:"comments"`
	DeliveryType string `json:"delivery_type"`
}

type PostDepartmentRequest struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Address string `json:"address"`
}

type PlaceOrderRequest struct {
	PaymentType    string                `json:"payment_type"`
	DeliveryInfo   DeliveryInfoRequest   `json:"delivery_info"`
	PostDepartment PostDepartmentRequest `json:"post_department"`
}

// /orders を登録
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, logger zerolog.Logger) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo, logger))

	g.POST("", h.placeOrder)
	g.GET("", h.listOrders)
	g.GET("/:id", h.orderDetail)
}

func (h *OrderHandler) placeOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		PaymentType: req.PaymentType,
		Delivery: usecase.DeliveryInfoInput{
			FullName:     req.DeliveryInfo.FullName,
			Number:       req.DeliveryInfo.Number,
			Email:        req.DeliveryInfo.Email,
			Comments:     req.DeliveryInfo.Comments,
			DeliveryType: req.DeliveryInfo.DeliveryType,
		},
		PostDepartment: usecase.PostDepartmentInput{
			City:    req.PostDepartment.City,
			State:   req.PostDepartment.State,
			Address: req.PostDepartment.Address,
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) orderDetail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
