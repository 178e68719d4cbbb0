package repository

import (
	"context"

	repo "instshop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders          repo.OrderRepository
	orderItems      repo.OrderItemRepository
	baskets         repo.BasketRepository
	basketItems     repo.BasketItemRepository
	inventory       repo.InventoryRepository
	items           repo.ItemRepository
	itemOptions     repo.ItemOptionRepository
	deliveryInfos   repo.DeliveryInfoRepository
	postDepartments repo.PostDepartmentRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                   { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *txReposGorm) Baskets() repo.BasketRepository                 { return r.baskets }
func (r *txReposGorm) BasketItems() repo.BasketItemRepository         { return r.basketItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository            { return r.inventory }
func (r *txReposGorm) Items() repo.ItemRepository                     { return r.items }
func (r *txReposGorm) ItemOptions() repo.ItemOptionRepository         { return r.itemOptions }
func (r *txReposGorm) DeliveryInfos() repo.DeliveryInfoRepository     { return r.deliveryInfos }
func (r *txReposGorm) PostDepartments() repo.PostDepartmentRepository { return r.postDepartments }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:          NewOrderGormRepository(tx),
			orderItems:      NewOrderItemGormRepository(tx),
			baskets:         NewBasketGormRepository(tx),
			basketItems:     NewBasketGormRepository(tx),
			inventory:       NewInventoryGormRepository(tx),
			items:           NewItemGormRepository(tx),
			itemOptions:     NewItemOptionGormRepository(tx),
			deliveryInfos:   NewDeliveryInfoGormRepository(tx),
			postDepartments: NewPostDepartmentGormRepository(tx),
		}
		return fn(r)
	})
}
