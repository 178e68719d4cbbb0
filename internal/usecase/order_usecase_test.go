package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"
	"instshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validPlaceOrderInput(paymentType string) usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		PaymentType: paymentType,
		Delivery: usecase.DeliveryInfoInput{
			FullName:     "Jane Doe",
			Number:       "+380501234567",
			Email:        "jane@example.com",
			DeliveryType: "new_post",
		},
		PostDepartment: usecase.PostDepartmentInput{
			City:    "Kyiv",
			State:   "Kyivska",
			Address: "Khreshchatyk 1",
		},
	}
}

func setupOrderBasket(tx *txReposMock) {
	tx.baskets.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 10, UserID: 7}, nil)
	tx.basketItems.On("ListByBasketID", mock.Anything, int64(10)).Return([]model.BasketItem{
		{ID: 50, BasketID: 10, ItemID: 1, SizeID: 2, ColorID: 3, Quantity: 2, UnitPriceSnapshot: 2500},
	}, nil)
	tx.postDeps.On("Create", mock.Anything, mock.Anything).Return(model.PostDepartment{ID: 4, City: "Kyiv"}, nil)
	tx.orders.On("Create", mock.Anything, mock.Anything).Return(int64(77), nil)
	tx.deliveries.On("Create", mock.Anything, mock.Anything).Return(model.DeliveryInfo{ID: 5, OrderID: 77}, nil)
	tx.items.On("FindByID", mock.Anything, int64(1)).Return(model.Item{ID: 1, Name: "Plain Tee", Price: 2500}, nil)
	tx.options.On("FindSizeByID", mock.Anything, int64(2)).Return(model.ItemSize{ID: 2, Size: "M"}, nil)
	tx.options.On("FindColorByID", mock.Anything, int64(3)).Return(model.ItemColor{ID: 3, Color: "Black"}, nil)
	tx.inventory.On("FindByTriple", mock.Anything, int64(1), int64(2), int64(3)).
		Return(model.InventoryRecord{ItemID: 1, SizeID: 2, ColorID: 3, Quantity: 8}, nil)
	tx.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.Anything).Return(nil)
}

// カード決済: セッションURLが保存され、在庫の再減算はしない
func TestOrderUsecase_PlaceOrder_CardSuccess(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	gw := new(GatewayMock)
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), gw)

	setupOrderBasket(tx)
	gw.On("CreateSession", mock.Anything, mock.MatchedBy(func(in usecase.CheckoutSessionInput) bool {
		return in.OrderID == 77 && len(in.Lines) == 1 && in.Lines[0].UnitAmount == 2500 && in.Lines[0].Quantity == 2
	})).Return("https://checkout.stripe.com/c/pay/cs_test_123", nil)
	tx.orders.On("UpdateCheckoutURL", mock.Anything, int64(77), "https://checkout.stripe.com/c/pay/cs_test_123").Return(nil)

	out, err := uc.PlaceOrder(ctx, 7, validPlaceOrderInput("card"))
	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", out.CheckoutURL)

	//201ボディは注文の全体像（ヘッダ＋明細＋配送先）を持つ
	assert.Equal(t, int64(77), out.Order.ID)
	assert.Equal(t, model.PaymentTypeCard, out.Order.PaymentType)
	assert.False(t, out.Order.IsPaid)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", out.Order.CheckoutURL)
	if assert.Len(t, out.Items, 1) {
		assert.Equal(t, "Plain Tee", out.Items[0].ItemNameSnapshot)
		assert.Equal(t, "M", out.Items[0].SizeLabel)
		assert.Equal(t, int64(2), out.Items[0].Quantity)
	}
	assert.Equal(t, int64(77), out.DeliveryInfo.OrderID)
	assert.Equal(t, "Kyiv", out.PostDepartment.City)

	//バスケット追加時に予約済み。ここで在庫は減らさない
	tx.inventory.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	//決済完了前はバスケットを残す
	tx.baskets.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)

	tx.orders.AssertExpectations(t)
	gw.AssertExpectations(t)
}

// 代引き: 配送料1件だけのセッション
func TestOrderUsecase_PlaceOrder_CashOnDeliveryChargesDeliveryFee(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	gw := new(GatewayMock)
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), gw)

	setupOrderBasket(tx)
	gw.On("CreateSession", mock.Anything, mock.MatchedBy(func(in usecase.CheckoutSessionInput) bool {
		return in.OrderID == 77 &&
			len(in.Lines) == 1 &&
			in.Lines[0].Name == "Delivery fee" &&
			in.Lines[0].UnitAmount == 200 &&
			in.Lines[0].Quantity == 1
	})).Return("https://checkout.stripe.com/c/pay/cs_test_fee", nil)
	tx.orders.On("UpdateCheckoutURL", mock.Anything, int64(77), "https://checkout.stripe.com/c/pay/cs_test_fee").Return(nil)

	out, err := uc.PlaceOrder(ctx, 7, validPlaceOrderInput("cash_on_delivery"))
	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_fee", out.CheckoutURL)

	gw.AssertExpectations(t)
}

// 前払いなしの支払い方法はその場でバスケットを空にする
func TestOrderUsecase_PlaceOrder_OtherPaymentClearsBasket(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	gw := new(GatewayMock)
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), gw)

	setupOrderBasket(tx)
	tx.baskets.On("Clear", mock.Anything, int64(10)).Return(nil)

	out, err := uc.PlaceOrder(ctx, 7, validPlaceOrderInput("cash"))
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.Order.ID)
	assert.Empty(t, out.CheckoutURL)

	gw.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	tx.baskets.AssertExpectations(t)
}

// 配送先が欠けていたら書き込み前に400
func TestOrderUsecase_PlaceOrder_IncompleteDelivery(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), new(GatewayMock))

	in := validPlaceOrderInput("card")
	in.Delivery.FullName = ""

	_, err := uc.PlaceOrder(ctx, 7, in)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	tx.baskets.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	tx.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 支店情報が欠けていたら400
func TestOrderUsecase_PlaceOrder_MissingPostDepartment(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), new(GatewayMock))

	in := validPlaceOrderInput("card")
	in.PostDepartment.City = ""

	_, err := uc.PlaceOrder(ctx, 7, in)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// 空バスケットでは注文できない
func TestOrderUsecase_PlaceOrder_EmptyBasket(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), new(GatewayMock))

	tx.baskets.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 10, UserID: 7}, nil)
	tx.basketItems.On("ListByBasketID", mock.Anything, int64(10)).Return([]model.BasketItem{}, nil)

	_, err := uc.PlaceOrder(ctx, 7, validPlaceOrderInput("card"))
	assertHTTPStatus(t, err, http.StatusBadRequest)

	tx.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 在庫行が消えていたら400でロールバック
func TestOrderUsecase_PlaceOrder_InventoryRecordGone(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), new(GatewayMock))

	tx.baskets.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 10, UserID: 7}, nil)
	tx.basketItems.On("ListByBasketID", mock.Anything, int64(10)).Return([]model.BasketItem{
		{ID: 50, BasketID: 10, ItemID: 1, SizeID: 2, ColorID: 3, Quantity: 2, UnitPriceSnapshot: 2500},
	}, nil)
	tx.postDeps.On("Create", mock.Anything, mock.Anything).Return(model.PostDepartment{ID: 4}, nil)
	tx.orders.On("Create", mock.Anything, mock.Anything).Return(int64(77), nil)
	tx.deliveries.On("Create", mock.Anything, mock.Anything).Return(model.DeliveryInfo{ID: 5}, nil)
	tx.items.On("FindByID", mock.Anything, int64(1)).Return(model.Item{ID: 1, Name: "Plain Tee"}, nil)
	tx.options.On("FindSizeByID", mock.Anything, int64(2)).Return(model.ItemSize{ID: 2, Size: "M"}, nil)
	tx.options.On("FindColorByID", mock.Anything, int64(3)).Return(model.ItemColor{ID: 3, Color: "Black"}, nil)
	tx.inventory.On("FindByTriple", mock.Anything, int64(1), int64(2), int64(3)).
		Return(model.InventoryRecord{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(ctx, 7, validPlaceOrderInput("card"))
	assertHTTPStatus(t, err, http.StatusBadRequest)

	tx.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

// セッション作成に失敗したら400（トランザクションごと巻き戻る）
func TestOrderUsecase_PlaceOrder_GatewayFailure(t *testing.T) {
	ctx := context.Background()
	tx := newTxReposMock()
	gw := new(GatewayMock)
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: tx}, new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), gw)

	setupOrderBasket(tx)
	gw.On("CreateSession", mock.Anything, mock.Anything).Return("", errors.New("stripe unavailable"))

	_, err := uc.PlaceOrder(ctx, 7, validPlaceOrderInput("card"))
	assertHTTPStatus(t, err, http.StatusBadRequest)

	tx.orders.AssertNotCalled(t, "UpdateCheckoutURL", mock.Anything, mock.Anything, mock.Anything)
}

// 他人の注文詳細は404
func TestOrderUsecase_GetMyOrderDetail_OtherUsersOrder(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(&txManagerMock{repos: newTxReposMock()}, orderRepo, new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock), new(GatewayMock))

	orderRepo.On("FindByID", mock.Anything, int64(77)).Return(model.Order{ID: 77, UserID: 99}, nil)

	_, err := uc.GetMyOrderDetail(ctx, 7, 77)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
