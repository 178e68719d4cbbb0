package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"instshop/internal/domain/model"
	repo "instshop/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type CatalogUsecase struct {
	itemRepo      repo.ItemRepository
	categoryRepo  repo.CategoryRepository
	inventoryRepo repo.InventoryRepository
	optionRepo    repo.ItemOptionRepository
}

// DI
func NewCatalogUsecase(
	itemRepo repo.ItemRepository,
	categoryRepo repo.CategoryRepository,
	inventoryRepo repo.InventoryRepository,
	optionRepo repo.ItemOptionRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		inventoryRepo: inventoryRepo,
		optionRepo:    optionRepo,
	}
}

// GET /itemsの入力DTO
type ListItemsInput struct {
	Size     string
	Color    string
	Brand    string
	Sale     *bool
	InStock  *bool
	Ordering string
}

func (u *CatalogUsecase) ListItems(ctx context.Context, in ListItemsInput) ([]model.Item, error) {
	switch in.Ordering {
	case "", "newest", "cheaper", "exp":
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid ordering")
	}

	items, err := u.itemRepo.List(ctx, repo.ItemListQuery{
		Size:     in.Size,
		Color:    in.Color,
		Brand:    in.Brand,
		Sale:     in.Sale,
		InStock:  in.InStock,
		Ordering: in.Ordering,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 商品詳細。size/colorごとの残数も返す
type ItemAvailability struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int64  `json:"quantity"`
}

type ItemDetailOutput struct {
	Item         model.Item         `json:"item"`
	Availability []ItemAvailability `json:"availability"`
}

func (u *CatalogUsecase) GetItemDetail(ctx context.Context, itemID int64) (ItemDetailOutput, error) {
	if itemID <= 0 {
		return ItemDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return ItemDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	records, err := u.inventoryRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	availability := make([]ItemAvailability, 0, len(records))
	for _, rec := range records {
		size, err := u.optionRepo.FindSizeByID(ctx, rec.SizeID)
		if err != nil {
			return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		color, err := u.optionRepo.FindColorByID(ctx, rec.ColorID)
		if err != nil {
			return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		availability = append(availability, ItemAvailability{
			Size:     size.Size,
			Color:    color.Color,
			Quantity: rec.Quantity,
		})
	}

	return ItemDetailOutput{Item: item, Availability: availability}, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, categoryID int64) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}
