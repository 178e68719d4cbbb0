package usecase

import (
	"context"
	"net/http"
	"strings"

	repo "instshop/internal/repository"
)

type BasketUsecase struct {
	txManager      repo.TransactionManager
	basketRepo     repo.BasketRepository
	basketItemRepo repo.BasketItemRepository
	itemRepo       repo.ItemRepository
	optionRepo     repo.ItemOptionRepository
}

// DI
func NewBasketUsecase(
	txManager repo.TransactionManager,
	basketRepo repo.BasketRepository,
	basketItemRepo repo.BasketItemRepository,
	itemRepo repo.ItemRepository,
	optionRepo repo.ItemOptionRepository,
) *BasketUsecase {
	return &BasketUsecase{
		txManager:      txManager,
		basketRepo:     basketRepo,
		basketItemRepo: basketItemRepo,
		itemRepo:       itemRepo,
		optionRepo:     optionRepo,
	}
}

type BasketLineOutput struct {
	ID       int64  `json:"id"`
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
	Subtotal int64  `json:"subtotal"`
}

type BasketOutput struct {
	ID    int64              `json:"id"`
	Lines []BasketLineOutput `json:"lines"`
	Total int64              `json:"total"`
}

func (u *BasketUsecase) GetBasket(ctx context.Context, userID int64) (BasketOutput, error) {
	if userID <= 0 {
		return BasketOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	basket, err := u.basketRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := u.basketItemRepo.ListByBasketID(ctx, basket.ID)
	if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := BasketOutput{ID: basket.ID, Lines: make([]BasketLineOutput, 0, len(lines))}
	for _, line := range lines {
		lo, err := u.serializeLine(ctx, line.ID, line.ItemID, line.SizeID, line.ColorID, line.Quantity, line.UnitPriceSnapshot)
		if err != nil {
			return BasketOutput{}, err
		}
		out.Lines = append(out.Lines, lo)
		out.Total += lo.Subtotal
	}
	return out, nil
}

type AddToBasketInput struct {
	ItemName string
	Size     string
	Color    string
	Quantity int64
}

// AddToBasket は在庫の予約と明細の追加を1トランザクションで行う。
// 同じ(item,size,color)が既にあれば数量を足す。在庫の減算は追加分だけ
func (u *BasketUsecase) AddToBasket(ctx context.Context, userID int64, in AddToBasketInput) (BasketLineOutput, error) {
	if userID <= 0 {
		return BasketLineOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.ItemName) == "" || strings.TrimSpace(in.Size) == "" || strings.TrimSpace(in.Color) == "" {
		return BasketLineOutput{}, NewHTTPError(http.StatusBadRequest, "item, size and color are required")
	}
	if in.Quantity < 1 {
		return BasketLineOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	var out BasketLineOutput
	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.Items().FindByName(ctx, strings.TrimSpace(in.ItemName))
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "item, size, color, or inventory not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		size, err := r.ItemOptions().FindSizeByLabel(ctx, strings.TrimSpace(in.Size))
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "item, size, color, or inventory not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		color, err := r.ItemOptions().FindColorByLabel(ctx, strings.TrimSpace(in.Color))
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "item, size, color, or inventory not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫行そのものが無い組み合わせは販売対象外
		if _, err := r.Inventory().FindByTriple(ctx, item.ID, size.ID, color.ID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "item, size, color, or inventory not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		basket, err := r.Baskets().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//追加分だけ原子的に減算。足りなければロールバック
		ok, err := r.Inventory().Reserve(ctx, item.ID, size.ID, color.ID, in.Quantity)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "not enough items in stock")
		}

		line, err := r.BasketItems().UpsertByTriple(ctx, basket.ID, item.ID, size.ID, color.ID, in.Quantity, effectivePrice(item.Sale, item.SalePrice, item.Price))
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = BasketLineOutput{
			ID:       line.ID,
			ItemID:   item.ID,
			Name:     item.Name,
			Size:     size.Size,
			Color:    color.Color,
			Quantity: line.Quantity,
			Price:    line.UnitPriceSnapshot,
			Subtotal: line.UnitPriceSnapshot * line.Quantity,
		}
		return nil
	})
	if err != nil {
		return BasketLineOutput{}, err
	}
	return out, nil
}

// UpdateBasketItem は数量を変更する。増えた分は予約、減った分は在庫へ戻す
func (u *BasketUsecase) UpdateBasketItem(ctx context.Context, userID int64, basketItemID int64, quantity int64) (BasketLineOutput, error) {
	if userID <= 0 {
		return BasketLineOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if basketItemID <= 0 {
		return BasketLineOutput{}, NewHTTPError(http.StatusBadRequest, "invalid basket item id")
	}
	if quantity < 1 {
		return BasketLineOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	var out BasketLineOutput
	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.BasketItems().IsOwnedByUser(ctx, basketItemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		line, err := r.BasketItems().FindByID(ctx, basketItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		delta := quantity - line.Quantity
		if delta > 0 {
			ok, err := r.Inventory().Reserve(ctx, line.ItemID, line.SizeID, line.ColorID, delta)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "not enough items in stock")
			}
		} else if delta < 0 {
			if err := r.Inventory().Release(ctx, line.ItemID, line.SizeID, line.ColorID, -delta); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.BasketItems().UpdateQuantity(ctx, basketItemID, quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lo, err := u.serializeLineTx(ctx, r, line.ID, line.ItemID, line.SizeID, line.ColorID, quantity, line.UnitPriceSnapshot)
		if err != nil {
			return err
		}
		out = lo
		return nil
	})
	if err != nil {
		return BasketLineOutput{}, err
	}
	return out, nil
}

// DeleteBasketItem は明細を消して予約分を在庫へ戻す。
func (u *BasketUsecase) DeleteBasketItem(ctx context.Context, userID int64, basketItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if basketItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid basket item id")
	}

	return u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.BasketItems().IsOwnedByUser(ctx, basketItemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		line, err := r.BasketItems().FindByID(ctx, basketItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().Release(ctx, line.ItemID, line.SizeID, line.ColorID, line.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.BasketItems().DeleteByID(ctx, basketItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *BasketUsecase) serializeLine(ctx context.Context, lineID, itemID, sizeID, colorID, quantity, unitPrice int64) (BasketLineOutput, error) {
	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return BasketLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	size, err := u.optionRepo.FindSizeByID(ctx, sizeID)
	if err != nil {
		return BasketLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	color, err := u.optionRepo.FindColorByID(ctx, colorID)
	if err != nil {
		return BasketLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return BasketLineOutput{
		ID:       lineID,
		ItemID:   itemID,
		Name:     item.Name,
		Size:     size.Size,
		Color:    color.Color,
		Quantity: quantity,
		Price:    unitPrice,
		Subtotal: unitPrice * quantity,
	}, nil
}

func (u *BasketUsecase) serializeLineTx(ctx context.Context, r repo.TxRepos, lineID, itemID, sizeID, colorID, quantity, unitPrice int64) (BasketLineOutput, error) {
	item, err := r.Items().FindByID(ctx, itemID)
	if err != nil {
		return BasketLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	size, err := r.ItemOptions().FindSizeByID(ctx, sizeID)
	if err != nil {
		return BasketLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	color, err := r.ItemOptions().FindColorByID(ctx, colorID)
	if err != nil {
		return BasketLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return BasketLineOutput{
		ID:       lineID,
		ItemID:   itemID,
		Name:     item.Name,
		Size:     size.Size,
		Color:    color.Color,
		Quantity: quantity,
		Price:    unitPrice,
		Subtotal: unitPrice * quantity,
	}, nil
}

// セール中はセール価格を使う
func effectivePrice(sale bool, salePrice *int64, price int64) int64 {
	if sale && salePrice != nil {
		return *salePrice
	}
	return price
}
