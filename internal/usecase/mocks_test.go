package usecase_test

import (
	"context"
	"time"

	"instshop/internal/domain/model"
	"instshop/internal/notification"
	repo "instshop/internal/repository"
	"instshop/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type ItemRepoMock struct{ mock.Mock }

func (m *ItemRepoMock) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func (m *ItemRepoMock) FindByID(ctx context.Context, itemID int64) (model.Item, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(model.Item)
	return item, args.Error(1)
}

func (m *ItemRepoMock) FindByName(ctx context.Context, name string) (model.Item, error) {
	args := m.Called(ctx, name)
	item, _ := args.Get(0).(model.Item)
	return item, args.Error(1)
}

type ItemOptionRepoMock struct{ mock.Mock }

func (m *ItemOptionRepoMock) FindSizeByLabel(ctx context.Context, label string) (model.ItemSize, error) {
	args := m.Called(ctx, label)
	size, _ := args.Get(0).(model.ItemSize)
	return size, args.Error(1)
}

func (m *ItemOptionRepoMock) FindColorByLabel(ctx context.Context, label string) (model.ItemColor, error) {
	args := m.Called(ctx, label)
	color, _ := args.Get(0).(model.ItemColor)
	return color, args.Error(1)
}

func (m *ItemOptionRepoMock) FindSizeByID(ctx context.Context, sizeID int64) (model.ItemSize, error) {
	args := m.Called(ctx, sizeID)
	size, _ := args.Get(0).(model.ItemSize)
	return size, args.Error(1)
}

func (m *ItemOptionRepoMock) FindColorByID(ctx context.Context, colorID int64) (model.ItemColor, error) {
	args := m.Called(ctx, colorID)
	color, _ := args.Get(0).(model.ItemColor)
	return color, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, categoryID int64) (model.Category, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) FindByTriple(ctx context.Context, itemID, sizeID, colorID int64) (model.InventoryRecord, error) {
	args := m.Called(ctx, itemID, sizeID, colorID)
	rec, _ := args.Get(0).(model.InventoryRecord)
	return rec, args.Error(1)
}

func (m *InventoryRepoMock) ListByItemID(ctx context.Context, itemID int64) ([]model.InventoryRecord, error) {
	args := m.Called(ctx, itemID)
	records, _ := args.Get(0).([]model.InventoryRecord)
	return records, args.Error(1)
}

func (m *InventoryRepoMock) Reserve(ctx context.Context, itemID, sizeID, colorID int64, qty int64) (bool, error) {
	args := m.Called(ctx, itemID, sizeID, colorID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) Release(ctx context.Context, itemID, sizeID, colorID int64, qty int64) error {
	args := m.Called(ctx, itemID, sizeID, colorID, qty)
	return args.Error(0)
}

type BasketRepoMock struct{ mock.Mock }

func (m *BasketRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) Clear(ctx context.Context, basketID int64) error {
	args := m.Called(ctx, basketID)
	return args.Error(0)
}

type BasketItemRepoMock struct{ mock.Mock }

func (m *BasketItemRepoMock) ListByBasketID(ctx context.Context, basketID int64) ([]model.BasketItem, error) {
	args := m.Called(ctx, basketID)
	items, _ := args.Get(0).([]model.BasketItem)
	return items, args.Error(1)
}

func (m *BasketItemRepoMock) FindByID(ctx context.Context, basketItemID int64) (model.BasketItem, error) {
	args := m.Called(ctx, basketItemID)
	item, _ := args.Get(0).(model.BasketItem)
	return item, args.Error(1)
}

func (m *BasketItemRepoMock) UpsertByTriple(ctx context.Context, basketID int64, itemID, sizeID, colorID int64, addQty int64, unitPriceSnapshot int64) (model.BasketItem, error) {
	args := m.Called(ctx, basketID, itemID, sizeID, colorID, addQty, unitPriceSnapshot)
	item, _ := args.Get(0).(model.BasketItem)
	return item, args.Error(1)
}

func (m *BasketItemRepoMock) UpdateQuantity(ctx context.Context, basketItemID int64, qty int64) error {
	args := m.Called(ctx, basketItemID, qty)
	return args.Error(0)
}

func (m *BasketItemRepoMock) DeleteByID(ctx context.Context, basketItemID int64) error {
	args := m.Called(ctx, basketItemID)
	return args.Error(0)
}

func (m *BasketItemRepoMock) IsOwnedByUser(ctx context.Context, basketItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, basketItemID, userID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateCheckoutURL(ctx context.Context, orderID int64, url string) error {
	args := m.Called(ctx, orderID, url)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type DeliveryRepoMock struct{ mock.Mock }

func (m *DeliveryRepoMock) Create(ctx context.Context, info model.DeliveryInfo) (model.DeliveryInfo, error) {
	args := m.Called(ctx, info)
	created, _ := args.Get(0).(model.DeliveryInfo)
	return created, args.Error(1)
}

func (m *DeliveryRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.DeliveryInfo, error) {
	args := m.Called(ctx, orderID)
	info, _ := args.Get(0).(model.DeliveryInfo)
	return info, args.Error(1)
}

type PostDepRepoMock struct{ mock.Mock }

func (m *PostDepRepoMock) Create(ctx context.Context, dep model.PostDepartment) (model.PostDepartment, error) {
	args := m.Called(ctx, dep)
	created, _ := args.Get(0).(model.PostDepartment)
	return created, args.Error(1)
}

func (m *PostDepRepoMock) FindByID(ctx context.Context, depID int64) (model.PostDepartment, error) {
	args := m.Called(ctx, depID)
	dep, _ := args.Get(0).(model.PostDepartment)
	return dep, args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateSession(ctx context.Context, in usecase.CheckoutSessionInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type QueueMock struct{ mock.Mock }

func (m *QueueMock) Enqueue(ctx context.Context, task notification.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type EventStoreMock struct{ mock.Mock }

func (m *EventStoreMock) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *EventStoreMock) Forget(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// トランザクション用のモック束。fnをそのまま実行する
type txReposMock struct {
	items       *ItemRepoMock
	options     *ItemOptionRepoMock
	inventory   *InventoryRepoMock
	baskets     *BasketRepoMock
	basketItems *BasketItemRepoMock
	orders      *OrderRepoMock
	orderItems  *OrderItemRepoMock
	deliveries  *DeliveryRepoMock
	postDeps    *PostDepRepoMock
}

func newTxReposMock() *txReposMock {
	return &txReposMock{
		items:       new(ItemRepoMock),
		options:     new(ItemOptionRepoMock),
		inventory:   new(InventoryRepoMock),
		baskets:     new(BasketRepoMock),
		basketItems: new(BasketItemRepoMock),
		orders:      new(OrderRepoMock),
		orderItems:  new(OrderItemRepoMock),
		deliveries:  new(DeliveryRepoMock),
		postDeps:    new(PostDepRepoMock),
	}
}

func (r *txReposMock) Orders() repo.OrderRepository                   { return r.orders }
func (r *txReposMock) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *txReposMock) Baskets() repo.BasketRepository                 { return r.baskets }
func (r *txReposMock) BasketItems() repo.BasketItemRepository         { return r.basketItems }
func (r *txReposMock) Inventory() repo.InventoryRepository            { return r.inventory }
func (r *txReposMock) Items() repo.ItemRepository                     { return r.items }
func (r *txReposMock) ItemOptions() repo.ItemOptionRepository         { return r.options }
func (r *txReposMock) DeliveryInfos() repo.DeliveryInfoRepository     { return r.deliveries }
func (r *txReposMock) PostDepartments() repo.PostDepartmentRepository { return r.postDeps }

type txManagerMock struct {
	repos *txReposMock
}

func (m *txManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}
