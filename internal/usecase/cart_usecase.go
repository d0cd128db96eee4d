package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細は(user, product)につき1行。同一商品の追加は数量加算、更新は上書き。
type CartUsecase struct {
	lineItemRepo repo.LineItemRepository
	productRepo  repo.ProductRepository
	idGen        IDGenerator
}

// DI
func NewCartUsecase(
	lineItemRepo repo.LineItemRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
) *CartUsecase {
	return &CartUsecase{
		lineItemRepo: lineItemRepo,
		productRepo:  productRepo,
		idGen:        idGen,
	}
}

// LineItemResponse は明細＋商品情報。
type LineItemResponse struct {
	ID        string        `json:"id"`
	ProductID string        `json:"product_id"`
	Quantity  int64         `json:"quantity"`
	Product   model.Product `json:"product"`
}

type AddCartInput struct {
	ProductID string
	Quantity  int64
}

type UpdateCartInput struct {
	Quantity int64
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddCartInput) (LineItemResponse, error) {
	if userID == "" {
		return LineItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isValidID(in.ProductID) {
		return LineItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return LineItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 既存明細を先に探す
	item, err := u.lineItemRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err == nil {
		// 既存あり → 加算
		newQty := item.Quantity + in.Quantity
		if err := u.lineItemRepo.UpdateQuantity(ctx, item.ID, newQty); err != nil {
			return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		item.Quantity = newQty
		return u.buildItemResponse(ctx, item)
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return LineItemResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return LineItemResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	created, err := u.lineItemRepo.Create(ctx, model.LineItem{
		ID:        u.idGen.NewID(),
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
	if errors.Is(err, repo.ErrConflict) {
		// 同時追加で先を越された場合。uniqueIndexが守ってくれるので加算し直す。
		item, findErr := u.lineItemRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
		if findErr != nil {
			return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		newQty := item.Quantity + in.Quantity
		if err := u.lineItemRepo.UpdateQuantity(ctx, item.ID, newQty); err != nil {
			return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		item.Quantity = newQty
		return u.buildItemResponse(ctx, item)
	}
	if err != nil {
		return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LineItemResponse{
		ID:        created.ID,
		ProductID: created.ProductID,
		Quantity:  created.Quantity,
		Product:   p,
	}, nil
}

// 数量変更（上書き。加算ではない）。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID string, productID string, in UpdateCartInput) (LineItemResponse, error) {
	if userID == "" {
		return LineItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isValidID(productID) {
		return LineItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return LineItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.lineItemRepo.FindByUserAndProduct(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return LineItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.lineItemRepo.UpdateQuantity(ctx, item.ID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return LineItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item.Quantity = in.Quantity
	return u.buildItemResponse(ctx, item)
}

// 明細削除
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID string, productID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isValidID(productID) {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	err := u.lineItemRepo.DeleteByUserAndProduct(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// GetCart はユーザーの明細を商品情報付きで返す（読み取りのみ）。
// 商品が非公開になっても明細は消さない仕様なので、ここは公開判定をしない。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) ([]LineItemResponse, error) {
	if userID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.lineItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			// 完全削除された商品の明細。商品情報は空のまま返す。
			resp = append(resp, LineItemResponse{
				ID:        it.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		resp = append(resp, LineItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   p,
		})
	}

	return resp, nil
}

func (u *CartUsecase) buildItemResponse(ctx context.Context, item model.LineItem) (LineItemResponse, error) {
	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return LineItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LineItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Product:   p,
	}, nil
}
