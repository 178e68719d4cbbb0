package repository

import (
	"context"

	"instshop/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateCheckoutURL(ctx context.Context, orderID int64, url string) error

	//is_paidをfalse→trueへ。既にtrueならfalseを返す（webhook再送対策）
	MarkPaid(ctx context.Context, orderID int64) (bool, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
