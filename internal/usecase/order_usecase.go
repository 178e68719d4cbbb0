package usecase

import (
	"context"
	"net/http"
	"strings"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"
)

// 決済セッションの1行
type CheckoutLineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type CheckoutSessionInput struct {
	OrderID int64
	Lines   []CheckoutLineItem
}

// 決済ゲートウェイの差し替え口。戻り値はCheckout URL
type CheckoutGateway interface {
	CreateSession(ctx context.Context, in CheckoutSessionInput) (string, error)
}

// 代引きはカードで配送料だけ先払い
const deliveryFeeMinor int64 = 200

type OrderUsecase struct {
	txManager     repo.TransactionManager
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	deliveryRepo  repo.DeliveryInfoRepository
	postDepRepo   repo.PostDepartmentRepository
	checkoutGW    CheckoutGateway
}

// DI
func NewOrderUsecase(
	txManager repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	deliveryRepo repo.DeliveryInfoRepository,
	postDepRepo repo.PostDepartmentRepository,
	checkoutGW CheckoutGateway,
) *OrderUsecase {
	return &OrderUsecase{
		txManager:     txManager,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		deliveryRepo:  deliveryRepo,
		postDepRepo:   postDepRepo,
		checkoutGW:    checkoutGW,
	}
}

type DeliveryInfoInput struct {
	FullName     string
	Number       string
	Email        string
	Comments     string
	DeliveryType string
}

type PostDepartmentInput struct {
	City    string
	State   string
	Address string
}

type PlaceOrderInput struct {
	PaymentType    string
	Delivery       DeliveryInfoInput
	PostDepartment PostDepartmentInput
}

type PlaceOrderOutput struct {
	Order          model.Order          `json:"order"`
	Items          []model.OrderItem    `json:"items"`
	DeliveryInfo   model.DeliveryInfo   `json:"delivery_info"`
	PostDepartment model.PostDepartment `json:"post_department"`
	CheckoutURL    string               `json:"checkout_url,omitempty"`
}

// PlaceOrder はバスケットを注文へ固める。
// 在庫はバスケット追加時に予約済みなので、ここでは在庫行の存在確認だけで
// 二重に減算しない。カード系はStripeのセッション作成まで同一トランザクション。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Delivery.FullName) == "" || strings.TrimSpace(in.Delivery.Number) == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "delivery information is incomplete")
	}
	if strings.TrimSpace(in.PostDepartment.City) == "" ||
		strings.TrimSpace(in.PostDepartment.State) == "" ||
		strings.TrimSpace(in.PostDepartment.Address) == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "post department data is required")
	}
	switch model.DeliveryType(in.Delivery.DeliveryType) {
	case model.DeliveryTypeNewPost, model.DeliveryTypePickup:
	default:
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery type")
	}
	if strings.TrimSpace(in.PaymentType) == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "payment type is required")
	}

	var out PlaceOrderOutput
	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		basket, err := r.Baskets().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "unable to retrieve basket")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.BasketItems().ListByBasketID(ctx, basket.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "basket is empty")
		}

		dep, err := r.PostDepartments().Create(ctx, model.PostDepartment{
			City:    strings.TrimSpace(in.PostDepartment.City),
			State:   strings.TrimSpace(in.PostDepartment.State),
			Address: strings.TrimSpace(in.PostDepartment.Address),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order := model.Order{
			UserID:           userID,
			PaymentType:      model.PaymentType(in.PaymentType),
			IsPaid:           false,
			PostDepartmentID: dep.ID,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		info, err := r.DeliveryInfos().Create(ctx, model.DeliveryInfo{
			OrderID:      orderID,
			FullName:     strings.TrimSpace(in.Delivery.FullName),
			Number:       strings.TrimSpace(in.Delivery.Number),
			Email:        strings.TrimSpace(in.Delivery.Email),
			Comments:     in.Delivery.Comments,
			DeliveryType: model.DeliveryType(in.Delivery.DeliveryType),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細をスナップショットで固める。在庫はバスケット追加時に予約済み
		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			item, err := r.Items().FindByID(ctx, line.ItemID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "item no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			size, err := r.ItemOptions().FindSizeByID(ctx, line.SizeID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			color, err := r.ItemOptions().FindColorByID(ctx, line.ColorID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//台帳の行自体が消えていたら注文を通さない
			if _, err := r.Inventory().FindByTriple(ctx, line.ItemID, line.SizeID, line.ColorID); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusBadRequest, "item no longer available")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			orderItems = append(orderItems, model.OrderItem{
				OrderID:           orderID,
				ItemID:            line.ItemID,
				SizeID:            line.SizeID,
				ColorID:           line.ColorID,
				ItemNameSnapshot:  item.Name,
				SizeLabel:         size.Size,
				ColorLabel:        color.Color,
				UnitPriceSnapshot: line.UnitPriceSnapshot,
				Quantity:          line.Quantity,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		switch model.PaymentType(in.PaymentType) {
		case model.PaymentTypeCard:
			checkoutLines := make([]CheckoutLineItem, 0, len(orderItems))
			for _, oi := range orderItems {
				checkoutLines = append(checkoutLines, CheckoutLineItem{
					Name:       oi.ItemNameSnapshot,
					UnitAmount: oi.UnitPriceSnapshot,
					Quantity:   oi.Quantity,
				})
			}
			url, err := u.checkoutGW.CreateSession(ctx, CheckoutSessionInput{OrderID: orderID, Lines: checkoutLines})
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, "unable to create checkout session")
			}
			if err := r.Orders().UpdateCheckoutURL(ctx, orderID, url); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.CheckoutURL = url

		case model.PaymentTypeCashOnDelivery:
			url, err := u.checkoutGW.CreateSession(ctx, CheckoutSessionInput{
				OrderID: orderID,
				Lines:   []CheckoutLineItem{{Name: "Delivery fee", UnitAmount: deliveryFeeMinor, Quantity: 1}},
			})
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, "unable to create checkout session")
			}
			if err := r.Orders().UpdateCheckoutURL(ctx, orderID, url); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.CheckoutURL = url

		default:
			//前払いなし。バスケットはここで空にする
			if err := r.Baskets().Clear(ctx, basket.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = PlaceOrderOutput{
			Order:          order,
			Items:          orderItems,
			DeliveryInfo:   info,
			PostDepartment: dep,
			CheckoutURL:    order.CheckoutURL,
		}
		return nil
	})
	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return out, nil
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

type OrderDetailOutput struct {
	Order          model.Order          `json:"order"`
	Items          []model.OrderItem    `json:"items"`
	DeliveryInfo   model.DeliveryInfo   `json:"delivery_info"`
	PostDepartment model.PostDepartment `json:"post_department"`
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の注文は存在ごと隠す
	if order.UserID != userID {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	info, err := u.deliveryRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	dep, err := u.postDepRepo.FindByID(ctx, order.PostDepartmentID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailOutput{
		Order:          order,
		Items:          items,
		DeliveryInfo:   info,
		PostDepartment: dep,
	}, nil
}
