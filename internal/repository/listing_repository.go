package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索。nilのフィールドは条件に使わない。
type ListingListQuery struct {
	Page         int
	Limit        int
	Q            string
	CategoryID   *int64
	SellerID     *int64
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Condition    *model.ListingCondition
	ListingType  *model.ListingType
	Status       *model.ListingStatus
	CreatedAfter *time.Time
	Sort         string
}

// 出品の永続化（保存・取得）だけを約束。
// statusの変更は注文ライフサイクルか管理者操作からのみ呼ばれる。
type ListingRepository interface {
	FindByID(ctx context.Context, listingID int64) (model.Listing, error)
	List(ctx context.Context, q ListingListQuery) ([]model.Listing, int64, error)

	Create(ctx context.Context, listing model.Listing) (model.Listing, error)
	Update(ctx context.Context, listing model.Listing) error
	UpdateStatus(ctx context.Context, listingID int64, status model.ListingStatus) error
	Delete(ctx context.Context, listingID int64) error

	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Listing, error)
}
