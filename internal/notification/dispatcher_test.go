package notification_test

import (
	"context"
	"testing"

	"instshop/internal/domain/model"
	"instshop/internal/notification"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in dispatcher tests")
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	panic("not used in dispatcher tests")
}

func (m *OrderRepoMock) UpdateCheckoutURL(ctx context.Context, orderID int64, url string) error {
	panic("not used in dispatcher tests")
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	panic("not used in dispatcher tests")
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	panic("not used in dispatcher tests")
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type DeliveryRepoMock struct{ mock.Mock }

func (m *DeliveryRepoMock) Create(ctx context.Context, info model.DeliveryInfo) (model.DeliveryInfo, error) {
	panic("not used in dispatcher tests")
}

func (m *DeliveryRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.DeliveryInfo, error) {
	args := m.Called(ctx, orderID)
	info, _ := args.Get(0).(model.DeliveryInfo)
	return info, args.Error(1)
}

type PostDepRepoMock struct{ mock.Mock }

func (m *PostDepRepoMock) Create(ctx context.Context, dep model.PostDepartment) (model.PostDepartment, error) {
	panic("not used in dispatcher tests")
}

func (m *PostDepRepoMock) FindByID(ctx context.Context, depID int64) (model.PostDepartment, error) {
	args := m.Called(ctx, depID)
	dep, _ := args.Get(0).(model.PostDepartment)
	return dep, args.Error(1)
}

type AlertSenderMock struct{ mock.Mock }

func (m *AlertSenderMock) Send(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

type EmailSenderMock struct{ mock.Mock }

func (m *EmailSenderMock) Send(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func setupOrderMocks() (*OrderRepoMock, *OrderItemRepoMock, *DeliveryRepoMock, *PostDepRepoMock) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	deliveries := new(DeliveryRepoMock)
	postDeps := new(PostDepRepoMock)

	orders.On("FindByID", mock.Anything, int64(77)).
		Return(model.Order{ID: 77, UserID: 7, PaymentType: model.PaymentTypeCard, PostDepartmentID: 4}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{
		{OrderID: 77, ItemNameSnapshot: "Plain Tee", SizeLabel: "M", ColorLabel: "Black", UnitPriceSnapshot: 2500, Quantity: 2},
		{OrderID: 77, ItemNameSnapshot: "Hoodie", SizeLabel: "L", ColorLabel: "Grey", UnitPriceSnapshot: 5000, Quantity: 1},
	}, nil)
	deliveries.On("FindByOrderID", mock.Anything, int64(77)).Return(model.DeliveryInfo{
		OrderID: 77, FullName: "Jane Doe", Number: "+380501234567",
		Email: "jane@example.com", DeliveryType: model.DeliveryTypeNewPost,
	}, nil)
	postDeps.On("FindByID", mock.Anything, int64(4)).Return(model.PostDepartment{
		ID: 4, City: "Kyiv", State: "Kyivska", Address: "Khreshchatyk 1",
	}, nil)

	return orders, orderItems, deliveries, postDeps
}

// 管理者アラート: 注文の要約テキストが送られる
func TestDispatcher_AdminAlertSummary(t *testing.T) {
	orders, orderItems, deliveries, postDeps := setupOrderMocks()
	alert := new(AlertSenderMock)
	d := notification.NewDispatcher(
		orders, orderItems, deliveries, postDeps,
		notification.NopEmailSender{}, alert,
		"http://fe/verify", "http://fe/reset", zerolog.Nop(),
	)

	var sent string
	alert.On("Send", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sent = args.String(1) }).
		Return(nil)

	err := d.Handle(context.Background(), notification.Task{Kind: notification.TaskAdminAlert, OrderID: 77})
	assert.NoError(t, err)

	assert.Contains(t, sent, "New order #77")
	assert.Contains(t, sent, "Jane Doe")
	assert.Contains(t, sent, "Plain Tee (M / Black) x2 - 50.00")
	assert.Contains(t, sent, "Total: 100.00")
	assert.Contains(t, sent, "Kyiv")
}

// 注文確認メールは配送先のメール宛
func TestDispatcher_OrderConfirmationEmail(t *testing.T) {
	orders, orderItems, deliveries, postDeps := setupOrderMocks()
	email := new(EmailSenderMock)
	d := notification.NewDispatcher(
		orders, orderItems, deliveries, postDeps,
		email, notification.NopAlertSender{},
		"http://fe/verify", "http://fe/reset", zerolog.Nop(),
	)

	email.On("Send", mock.Anything, "jane@example.com", "Order #77 confirmed", mock.AnythingOfType("string")).Return(nil)

	err := d.Handle(context.Background(), notification.Task{Kind: notification.TaskOrderConfirmation, OrderID: 77})
	assert.NoError(t, err)

	email.AssertExpectations(t)
}

// 確認メール: リンクにトークンが入る
func TestDispatcher_VerificationEmailLink(t *testing.T) {
	email := new(EmailSenderMock)
	d := notification.NewDispatcher(
		new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock),
		email, notification.NopAlertSender{},
		"http://fe/verify-email", "http://fe/password-reset", zerolog.Nop(),
	)

	email.On("Send", mock.Anything, "jane@example.com", "Confirm your email", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			assert.Contains(t, args.String(3), "http://fe/verify-email?token=token-123")
		}).
		Return(nil)

	err := d.Handle(context.Background(), notification.Task{
		Kind:  notification.TaskVerificationEmail,
		Email: "jane@example.com",
		Token: "token-123",
	})
	assert.NoError(t, err)

	email.AssertExpectations(t)
}

// 未知のタスクは握りつぶす
func TestDispatcher_UnknownTaskKind(t *testing.T) {
	d := notification.NewDispatcher(
		new(OrderRepoMock), new(OrderItemRepoMock), new(DeliveryRepoMock), new(PostDepRepoMock),
		notification.NopEmailSender{}, notification.NopAlertSender{},
		"http://fe/verify", "http://fe/reset", zerolog.Nop(),
	)

	err := d.Handle(context.Background(), notification.Task{Kind: "mystery"})
	assert.NoError(t, err)
}
