package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review model.Review) (model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Review, error)
	ExistsByOrderID(ctx context.Context, orderID int64) (bool, error)

	//出品・買い手・売り手視点の一覧はordersをjoinして引く
	ListByListing(ctx context.Context, listingID int64, page int, limit int) ([]model.Review, int64, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Review, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Review, error)

	//評価は都度計算する（キャッシュしない）。レビュー0件なら0を返す。
	AverageRatingByListing(ctx context.Context, listingID int64) (float64, error)
	AverageRatingBySeller(ctx context.Context, sellerID int64) (float64, error)
	AverageRatingOverall(ctx context.Context) (float64, error)
	CountByListing(ctx context.Context, listingID int64) (int64, error)
	CountBySeller(ctx context.Context, sellerID int64) (int64, error)

	Update(ctx context.Context, review model.Review) error
	Delete(ctx context.Context, reviewID int64) error
}
