package repository

import (
	"context"
	"time"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 日別の売上（完了注文のfinal_price合計）
type DayAmount struct {
	Day    time.Time
	Amount decimal.Decimal
}

// 完了注文ベースのセラー別集計
type TopSellerRow struct {
	SellerID        int64
	CompletedOrders int64
	Revenue         decimal.Decimal
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	//ライフサイクルの遷移はフィールドをまとめて保存する
	Save(ctx context.Context, order model.Order) error

	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	//出品者側（自分の出品に入った注文）。listingをjoinして引く。
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error)

	//REQUESTED/CONFIRMEDの注文（出品を押さえているもの）
	ListActiveByListing(ctx context.Context, listingID int64) ([]model.Order, error)
	CountActiveByListing(ctx context.Context, listingID int64) (int64, error)
	CountActiveByBuyer(ctx context.Context, buyerID int64) (int64, error)

	//期限切れ貸出の自動完了対象：
	//status=CONFIRMED AND listing_type=LEND AND borrow_due_date < now AND returned_at IS NULL
	ListAutoCompletableBorrow(ctx context.Context, now time.Time) ([]model.Order, error)

	//統計
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
	SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error)
	SumCompletedRevenueBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error)
	AvgCompletedOrderValue(ctx context.Context) (decimal.Decimal, error)
	TopSellers(ctx context.Context, limit int) ([]TopSellerRow, error)
	CountOrdersByDay(ctx context.Context, from time.Time, to time.Time) ([]DayCount, error)
	SumRevenueByDay(ctx context.Context, from time.Time, to time.Time) ([]DayAmount, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
}
