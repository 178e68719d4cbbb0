package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"instshop/internal/domain/model"
	"instshop/internal/notification"
	repo "instshop/internal/repository"

	"github.com/rs/zerolog"
)

// 署名不正・壊れたペイロードなどクライアント起因の失敗
var ErrBadWebhookRequest = errors.New("bad webhook request")

const EventCheckoutCompleted = "checkout.session.completed"

// 検証済みのWebhookイベント
type PaymentEvent struct {
	ID      string
	Type    string
	OrderID int64
}

// 生ボディと署名ヘッダからイベントを組み立てる
type PaymentEventParser interface {
	ParseEvent(payload []byte, signature string) (PaymentEvent, error)
}

// イベントIDの重複判定。初見ならtrue。
// 処理に失敗したらForgetで取り消し、ゲートウェイの再送を通す
type ProcessedEventStore interface {
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type WebhookUsecase struct {
	orderRepo      repo.OrderRepository
	orderItemRepo  repo.OrderItemRepository
	basketRepo     repo.BasketRepository
	basketItemRepo repo.BasketItemRepository
	inventoryRepo  repo.InventoryRepository
	events         ProcessedEventStore
	queue          notification.Queue
	dedupTTL       time.Duration
	logger         zerolog.Logger
}

// DI
func NewWebhookUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	basketRepo repo.BasketRepository,
	basketItemRepo repo.BasketItemRepository,
	inventoryRepo repo.InventoryRepository,
	events ProcessedEventStore,
	queue notification.Queue,
	logger zerolog.Logger,
) *WebhookUsecase {
	return &WebhookUsecase{
		orderRepo:      orderRepo,
		orderItemRepo:  orderItemRepo,
		basketRepo:     basketRepo,
		basketItemRepo: basketItemRepo,
		inventoryRepo:  inventoryRepo,
		events:         events,
		queue:          queue,
		dedupTTL:       72 * time.Hour,
		logger:         logger,
	}
}

// HandleEvent は検証済みイベントを処理する。
// is_paidのfalse→true遷移は一度だけ。再送は成功扱いで握りつぶす
func (u *WebhookUsecase) HandleEvent(ctx context.Context, ev PaymentEvent) error {
	if ev.Type != EventCheckoutCompleted {
		return nil
	}

	//Redisが落ちていても決済確定は止めない。重複防止はMarkPaid側が最終防衛
	marked := false
	if u.events != nil && ev.ID != "" {
		first, err := u.events.MarkProcessed(ctx, ev.ID, u.dedupTTL)
		if err != nil {
			u.logger.Error().Err(err).Str("event_id", ev.ID).Msg("event dedup store unavailable")
		} else if !first {
			u.logger.Info().Str("event_id", ev.ID).Msg("duplicate webhook event, skipping")
			return nil
		} else {
			marked = true
		}
	}

	if err := u.confirmPayment(ctx, ev.OrderID); err != nil {
		//エラー応答はゲートウェイに再送させる。キーが残ると再送が重複扱いになる
		if marked {
			if ferr := u.events.Forget(ctx, ev.ID); ferr != nil {
				u.logger.Error().Err(ferr).Str("event_id", ev.ID).Msg("failed to release event dedup key")
			}
		}
		return err
	}
	return nil
}

func (u *WebhookUsecase) confirmPayment(ctx context.Context, orderID int64) error {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusBadRequest, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	flipped, err := u.orderRepo.MarkPaid(ctx, orderID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !flipped {
		//既に支払い済み。通知の再送もしない
		u.logger.Info().Int64("order_id", orderID).Msg("order already paid, ignoring replay")
		return nil
	}

	//支払いは確定した。通知はここで必ず積む。
	//以降の後始末が失敗してもエラー応答にしない（再送しても支払いは巻き戻せない）
	u.enqueue(ctx, notification.Task{Kind: notification.TaskOrderConfirmation, OrderID: orderID})
	u.enqueue(ctx, notification.Task{Kind: notification.TaskAdminAlert, OrderID: orderID})

	u.cleanupBasket(ctx, order)

	return nil
}

// 支払い済み注文のバスケットを後始末する。失敗はログのみ。
// 注文確定後に追加された明細は売れていないので、予約を台帳へ戻してから空にする
func (u *WebhookUsecase) cleanupBasket(ctx context.Context, order model.Order) {
	basket, err := u.basketRepo.FindByUserID(ctx, order.UserID)
	if err == repo.ErrNotFound {
		u.logger.Warn().Int64("user_id", order.UserID).Msg("paid order without basket")
		return
	}
	if err != nil {
		u.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to load basket for cleanup")
		return
	}

	lines, err := u.basketItemRepo.ListByBasketID(ctx, basket.ID)
	if err != nil {
		u.logger.Error().Err(err).Int64("basket_id", basket.ID).Msg("failed to list basket for cleanup")
		return
	}

	orderItems, err := u.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		u.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to list order items for cleanup")
		return
	}
	sold := make(map[[3]int64]int64, len(orderItems))
	for _, oi := range orderItems {
		sold[[3]int64{oi.ItemID, oi.SizeID, oi.ColorID}] += oi.Quantity
	}

	for _, line := range lines {
		excess := line.Quantity - sold[[3]int64{line.ItemID, line.SizeID, line.ColorID}]
		if excess <= 0 {
			continue
		}
		if err := u.inventoryRepo.Release(ctx, line.ItemID, line.SizeID, line.ColorID, excess); err != nil {
			u.logger.Error().Err(err).Int64("basket_item_id", line.ID).Msg("failed to release unsold reservation")
		}
	}

	if err := u.basketRepo.Clear(ctx, basket.ID); err != nil {
		u.logger.Error().Err(err).Int64("basket_id", basket.ID).Msg("failed to clear basket after payment")
	}
}

func (u *WebhookUsecase) enqueue(ctx context.Context, task notification.Task) {
	if u.queue == nil {
		return
	}
	if err := u.queue.Enqueue(ctx, task); err != nil {
		u.logger.Error().
			Err(err).
			Str("kind", string(task.Kind)).
			Int64("order_id", task.OrderID).
			Msg("failed to enqueue notification task")
	}
}
