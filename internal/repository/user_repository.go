package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 日別の件数（登録数・注文数の集計用）
type DayCount struct {
	Day   time.Time
	Count int64
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	//管理者向け一覧・検索
	List(ctx context.Context, page int, limit int) ([]model.User, int64, error)
	Search(ctx context.Context, q string, page int, limit int) ([]model.User, int64, error)
	ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error)

	UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error
	UpdateRole(ctx context.Context, userID int64, role model.Role) error
	UpdateProfile(ctx context.Context, userID int64, fullName string, phone string, address string) error
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	Delete(ctx context.Context, userID int64) error

	//統計
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.UserStatus) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CountRegistrationsByDay(ctx context.Context, from time.Time, to time.Time) ([]DayCount, error)
	ListRecent(ctx context.Context, limit int) ([]model.User, error)
}
