package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type LineItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewLineItemGormRepository(db *gorm.DB) *LineItemGormRepository {
	return &LineItemGormRepository{db: db}
}

// ユーザーの明細を一覧取得
func (r *LineItemGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.LineItem, error) {
	var items []model.LineItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return []model.LineItem{}, err
	}

	return items, nil
}

// (user, product)で明細を1件取得
func (r *LineItemGormRepository) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.LineItem, error) {
	var item model.LineItem

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.LineItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.LineItem{}, err
	}
	return item, nil
}

// 明細を新規作成。
// (user_id, product_id)のuniqueIndexに当たったらErrConflict。
// 同時に同じ商品を追加すると片方はここで弾かれるので、usecase側で加算にフォールバックする。
func (r *LineItemGormRepository) Create(ctx context.Context, item model.LineItem) (model.LineItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if isUniqueViolation(err) {
			return model.LineItem{}, repo.ErrConflict
		}
		return model.LineItem{}, err
	}
	return item, nil
}

// 明細の数量を上書き
func (r *LineItemGormRepository) UpdateQuantity(ctx context.Context, lineItemID string, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.LineItem{}).
		Where("id = ?", lineItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// (user, product)で明細を削除
func (r *LineItemGormRepository) DeleteByUserAndProduct(ctx context.Context, userID string, productID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.LineItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
