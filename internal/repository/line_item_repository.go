package repository

import (
	"context"

	"app/internal/domain/model"
)

type LineItemRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]model.LineItem, error)
	FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.LineItem, error)
	// uniqueIndex違反は ErrConflict
	Create(ctx context.Context, item model.LineItem) (model.LineItem, error)
	// 絶対値で上書き（加算ではない）
	UpdateQuantity(ctx context.Context, lineItemID string, qty int64) error
	DeleteByUserAndProduct(ctx context.Context, userID string, productID string) error
}
