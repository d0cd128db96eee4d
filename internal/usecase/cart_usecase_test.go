package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CartLineItemRepoMock struct{ mock.Mock }

func (m *CartLineItemRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.LineItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.LineItem)
	return items, args.Error(1)
}

func (m *CartLineItemRepoMock) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.LineItem, error) {
	args := m.Called(ctx, userID, productID)
	item, _ := args.Get(0).(model.LineItem)
	return item, args.Error(1)
}

func (m *CartLineItemRepoMock) Create(ctx context.Context, item model.LineItem) (model.LineItem, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(model.LineItem)
	return created, args.Error(1)
}

func (m *CartLineItemRepoMock) UpdateQuantity(ctx context.Context, lineItemID string, qty int64) error {
	args := m.Called(ctx, lineItemID, qty)
	return args.Error(0)
}

func (m *CartLineItemRepoMock) DeleteByUserAndProduct(ctx context.Context, userID string, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CartProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) HardDelete(ctx context.Context, id string) error {
	panic("not used in CartUsecase tests")
}

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

const (
	testUserID    = "3f1e2d4c-0000-4000-8000-000000000001"
	testProductID = "3f1e2d4c-0000-4000-8000-000000000002"
	testItemID    = "3f1e2d4c-0000-4000-8000-000000000003"
)

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, want, he.Status)
}

func newCartUsecase(items *CartLineItemRepoMock, products *CartProductRepoMock) *usecase.CartUsecase {
	return usecase.NewCartUsecase(items, products, &fixedIDGen{id: testItemID})
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_AddToCart_NewItem(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).
		Return(model.LineItem{}, repo.ErrNotFound)

	p := model.Product{ID: testProductID, Name: "Beans", Price: 1000, IsActive: true}
	products.On("FindByID", mock.Anything, testProductID).Return(p, nil)

	created := model.LineItem{ID: testItemID, UserID: testUserID, ProductID: testProductID, Quantity: 2}
	items.On("Create", mock.Anything, mock.MatchedBy(func(it model.LineItem) bool {
		return it.UserID == testUserID && it.ProductID == testProductID && it.Quantity == 2
	})).Return(created, nil)

	out, err := uc.AddToCart(ctx, testUserID, usecase.AddCartInput{ProductID: testProductID, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Quantity)
	assert.Equal(t, "Beans", out.Product.Name)
	items.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_ExistingItem_IncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	existing := model.LineItem{ID: testItemID, UserID: testUserID, ProductID: testProductID, Quantity: 2}
	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).Return(existing, nil)

	// 2 + 3 = 5（加算であって上書きではない）
	items.On("UpdateQuantity", mock.Anything, testItemID, int64(5)).Return(nil)

	products.On("FindByID", mock.Anything, testProductID).
		Return(model.Product{ID: testProductID, IsActive: true}, nil)

	out, err := uc.AddToCart(ctx, testUserID, usecase.AddCartInput{ProductID: testProductID, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Quantity)
	items.AssertExpectations(t)
	// 既存明細があれば新規作成はしない
	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).
		Return(model.LineItem{}, repo.ErrNotFound)
	products.On("FindByID", mock.Anything, testProductID).
		Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(ctx, testUserID, usecase.AddCartInput{ProductID: testProductID, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusNotFound)
	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).
		Return(model.LineItem{}, repo.ErrNotFound)
	products.On("FindByID", mock.Anything, testProductID).
		Return(model.Product{ID: testProductID, IsActive: false}, nil)

	_, err := uc.AddToCart(ctx, testUserID, usecase.AddCartInput{ProductID: testProductID, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusNotFound)
	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc := newCartUsecase(new(CartLineItemRepoMock), new(CartProductRepoMock))

	_, err := uc.AddToCart(context.Background(), testUserID, usecase.AddCartInput{ProductID: testProductID, Quantity: 0})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddToCart_InvalidProductID(t *testing.T) {
	uc := newCartUsecase(new(CartLineItemRepoMock), new(CartProductRepoMock))

	_, err := uc.AddToCart(context.Background(), testUserID, usecase.AddCartInput{ProductID: "not-a-uuid", Quantity: 1})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddToCart_ConflictFallsBackToIncrement(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	// 1回目の検索では無い
	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).
		Return(model.LineItem{}, repo.ErrNotFound).Once()

	p := model.Product{ID: testProductID, IsActive: true}
	products.On("FindByID", mock.Anything, testProductID).Return(p, nil)

	// 同時追加に先を越されてuniqueIndexに当たる
	items.On("Create", mock.Anything, mock.Anything).
		Return(model.LineItem{}, repo.ErrConflict).Once()

	// 再検索して加算に切り替える
	winner := model.LineItem{ID: testItemID, UserID: testUserID, ProductID: testProductID, Quantity: 4}
	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).
		Return(winner, nil).Once()
	items.On("UpdateQuantity", mock.Anything, testItemID, int64(6)).Return(nil)

	out, err := uc.AddToCart(ctx, testUserID, usecase.AddCartInput{ProductID: testProductID, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(6), out.Quantity)
	items.AssertExpectations(t)
}

// =====================
// UpdateQuantity
// =====================

func TestCartUsecase_UpdateQuantity_Overwrites(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	existing := model.LineItem{ID: testItemID, UserID: testUserID, ProductID: testProductID, Quantity: 5}
	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).Return(existing, nil)

	// 5 → 1（上書きであって加算ではない）
	items.On("UpdateQuantity", mock.Anything, testItemID, int64(1)).Return(nil)

	products.On("FindByID", mock.Anything, testProductID).
		Return(model.Product{ID: testProductID, IsActive: true}, nil)

	out, err := uc.UpdateQuantity(ctx, testUserID, testProductID, usecase.UpdateCartInput{Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Quantity)
	items.AssertExpectations(t)
}

func TestCartUsecase_UpdateQuantity_NotFound(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	uc := newCartUsecase(items, new(CartProductRepoMock))

	items.On("FindByUserAndProduct", mock.Anything, testUserID, testProductID).
		Return(model.LineItem{}, repo.ErrNotFound)

	_, err := uc.UpdateQuantity(ctx, testUserID, testProductID, usecase.UpdateCartInput{Quantity: 2})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_UpdateQuantity_InvalidQuantity(t *testing.T) {
	uc := newCartUsecase(new(CartLineItemRepoMock), new(CartProductRepoMock))

	_, err := uc.UpdateQuantity(context.Background(), testUserID, testProductID, usecase.UpdateCartInput{Quantity: 0})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// RemoveFromCart
// =====================

func TestCartUsecase_RemoveFromCart_Success(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	uc := newCartUsecase(items, new(CartProductRepoMock))

	items.On("DeleteByUserAndProduct", mock.Anything, testUserID, testProductID).Return(nil)

	err := uc.RemoveFromCart(ctx, testUserID, testProductID)
	assert.NoError(t, err)
	items.AssertExpectations(t)
}

func TestCartUsecase_RemoveFromCart_NotFound(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	uc := newCartUsecase(items, new(CartProductRepoMock))

	items.On("DeleteByUserAndProduct", mock.Anything, testUserID, testProductID).Return(repo.ErrNotFound)

	err := uc.RemoveFromCart(ctx, testUserID, testProductID)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// GetCart
// =====================

func TestCartUsecase_GetCart_Empty(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	uc := newCartUsecase(items, new(CartProductRepoMock))

	items.On("ListByUserID", mock.Anything, testUserID).Return([]model.LineItem{}, nil)

	out, err := uc.GetCart(ctx, testUserID)
	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)
}

func TestCartUsecase_GetCart_ResolvesProducts(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	products := new(CartProductRepoMock)
	uc := newCartUsecase(items, products)

	items.On("ListByUserID", mock.Anything, testUserID).Return([]model.LineItem{
		{ID: testItemID, UserID: testUserID, ProductID: testProductID, Quantity: 3},
	}, nil)

	// 非公開でも明細は消えないので返る
	products.On("FindByID", mock.Anything, testProductID).
		Return(model.Product{ID: testProductID, Name: "Beans", IsActive: false}, nil)

	out, err := uc.GetCart(ctx, testUserID)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].Quantity)
	assert.Equal(t, "Beans", out[0].Product.Name)
}

func TestCartUsecase_GetCart_RepoError(t *testing.T) {
	ctx := context.Background()
	items := new(CartLineItemRepoMock)
	uc := newCartUsecase(items, new(CartProductRepoMock))

	items.On("ListByUserID", mock.Anything, testUserID).
		Return([]model.LineItem(nil), errors.New("boom"))

	_, err := uc.GetCart(ctx, testUserID)
	assertHTTPStatus(t, err, http.StatusInternalServerError)
}
