package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// emailが既に使用済み
var ErrEmailTaken = errors.New("email already taken")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを一件取得する。無ければ(nil, nil)。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
