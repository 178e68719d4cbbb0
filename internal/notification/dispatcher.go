package notification

import (
	"context"
	"fmt"
	"strings"

	"instshop/internal/repository"

	"github.com/rs/zerolog"
)

// メール送信の差し替え口（SMTP実装とテスト用フェイク）
type EmailSender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// 管理者向けアラート（Telegram実装）
type AlertSender interface {
	Send(ctx context.Context, text string) error
}

// Dispatcher はキューから取り出したタスクを実際の送信に変換する。
// 送信失敗はログに残すだけで呼び出し元へ伝播しない。
type Dispatcher struct {
	orders          repository.OrderRepository
	orderItems      repository.OrderItemRepository
	deliveryInfos   repository.DeliveryInfoRepository
	postDepartments repository.PostDepartmentRepository

	email EmailSender
	alert AlertSender

	verifyURLBase string
	resetURLBase  string

	logger zerolog.Logger
}

func NewDispatcher(
	orders repository.OrderRepository,
	orderItems repository.OrderItemRepository,
	deliveryInfos repository.DeliveryInfoRepository,
	postDepartments repository.PostDepartmentRepository,
	email EmailSender,
	alert AlertSender,
	verifyURLBase string,
	resetURLBase string,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		orders:          orders,
		orderItems:      orderItems,
		deliveryInfos:   deliveryInfos,
		postDepartments: postDepartments,
		email:           email,
		alert:           alert,
		verifyURLBase:   verifyURLBase,
		resetURLBase:    resetURLBase,
		logger:          logger,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, task Task) error {
	switch task.Kind {
	case TaskOrderConfirmation:
		return d.sendOrderConfirmation(ctx, task.OrderID)
	case TaskAdminAlert:
		return d.sendAdminAlert(ctx, task.OrderID)
	case TaskVerificationEmail:
		return d.sendVerificationEmail(ctx, task.Email, task.Token)
	case TaskRecoveryEmail:
		return d.sendRecoveryEmail(ctx, task.Email, task.Token)
	default:
		d.logger.Warn().Str("kind", string(task.Kind)).Msg("unknown notification task")
		return nil
	}
}

// 注文確認メール。宛先は配送先情報のメール
func (d *Dispatcher) sendOrderConfirmation(ctx context.Context, orderID int64) error {
	summary, email, err := d.buildOrderSummary(ctx, orderID)
	if err != nil {
		return err
	}
	if email == "" {
		d.logger.Info().Int64("order_id", orderID).Msg("order has no email, skipping confirmation")
		return nil
	}

	subject := fmt.Sprintf("Order #%d confirmed", orderID)
	return d.email.Send(ctx, email, subject, summary)
}

// 管理者へ新規注文を通知
func (d *Dispatcher) sendAdminAlert(ctx context.Context, orderID int64) error {
	summary, _, err := d.buildOrderSummary(ctx, orderID)
	if err != nil {
		return err
	}
	return d.alert.Send(ctx, summary)
}

func (d *Dispatcher) sendVerificationEmail(ctx context.Context, email string, token string) error {
	body := fmt.Sprintf(
		"Welcome!\n\nPlease confirm your email address by following this link:\n%s?token=%s\n",
		d.verifyURLBase, token,
	)
	return d.email.Send(ctx, email, "Confirm your email", body)
}

func (d *Dispatcher) sendRecoveryEmail(ctx context.Context, email string, token string) error {
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\nFollow this link to choose a new one:\n%s?token=%s\n\nIf you did not request this, ignore this message.\n",
		d.resetURLBase, token,
	)
	return d.email.Send(ctx, email, "Password recovery", body)
}

// 注文の要約テキストと宛先メールを組み立てる
func (d *Dispatcher) buildOrderSummary(ctx context.Context, orderID int64) (string, string, error) {
	order, err := d.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", "", fmt.Errorf("load order %d: %w", orderID, err)
	}
	lines, err := d.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return "", "", fmt.Errorf("load order items %d: %w", orderID, err)
	}
	info, err := d.deliveryInfos.FindByOrderID(ctx, orderID)
	if err != nil {
		return "", "", fmt.Errorf("load delivery info %d: %w", orderID, err)
	}
	dep, err := d.postDepartments.FindByID(ctx, order.PostDepartmentID)
	if err != nil {
		return "", "", fmt.Errorf("load post department %d: %w", order.PostDepartmentID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s, %s\n", info.FullName, info.Number)
	fmt.Fprintf(&b, "Delivery: %s, %s, %s, %s\n", info.DeliveryType, dep.City, dep.State, dep.Address)
	if info.Comments != "" {
		fmt.Fprintf(&b, "Comments: %s\n", info.Comments)
	}

	b.WriteString("Items:\n")
	var total int64
	for _, line := range lines {
		fmt.Fprintf(&b, "  - %s (%s / %s) x%d - %s\n",
			line.ItemNameSnapshot, line.SizeLabel, line.ColorLabel,
			line.Quantity, formatMoney(line.UnitPriceSnapshot*line.Quantity),
		)
		total += line.UnitPriceSnapshot * line.Quantity
	}
	fmt.Fprintf(&b, "Total: %s\n", formatMoney(total))
	fmt.Fprintf(&b, "Payment: %s\n", order.PaymentType)

	return b.String(), info.Email, nil
}

// 最小通貨単位(セント)を表示用に変換
func formatMoney(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
