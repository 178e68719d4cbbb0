package repository

import (
	"context"

	"instshop/internal/domain/model"
)

// 配送先情報（注文と1対1）
type DeliveryInfoRepository interface {
	Create(ctx context.Context, info model.DeliveryInfo) (model.DeliveryInfo, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.DeliveryInfo, error)
}

type PostDepartmentRepository interface {
	Create(ctx context.Context, dep model.PostDepartment) (model.PostDepartment, error)
	FindByID(ctx context.Context, depID int64) (model.PostDepartment, error)
}
