package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// レビューの編集・削除を許す期間
const reviewEditWindow = 24 * time.Hour

type ReviewUsecase struct {
	tx      repo.TransactionManager
	reviews repo.ReviewRepository
	orders  repo.OrderRepository
	clock   Clock
}

func NewReviewUsecase(
	tx repo.TransactionManager,
	reviews repo.ReviewRepository,
	orders repo.OrderRepository,
	clock Clock,
) *ReviewUsecase {
	return &ReviewUsecase{
		tx:      tx,
		reviews: reviews,
		orders:  orders,
		clock:   clock,
	}
}

type CreateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewPage struct {
	Items         []model.Review `json:"items"`
	Total         int64          `json:"total"`
	AverageRating float64        `json:"average_rating"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// レビュー作成。完了した注文の買い手だけが1回書ける。
func (u *ReviewUsecase) Create(ctx context.Context, buyerID int64, orderID int64, in CreateReviewInput) (model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var out model.Review

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if order.BuyerID != buyerID {
			return NewHTTPError(http.StatusForbidden, "not the buyer")
		}
		if order.Status != model.OrderStatusCompleted {
			return NewHTTPError(http.StatusConflict, "order is not completed")
		}

		exists, err := r.Reviews().ExistsByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return NewHTTPError(http.StatusConflict, "review already exists")
		}

		review := model.Review{
			OrderID:   orderID,
			Rating:    in.Rating,
			Comment:   strings.TrimSpace(in.Comment),
			CreatedAt: u.clock.Now(),
		}

		created, err := r.Reviews().Create(ctx, review)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = created
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}

	return out, nil
}

func (u *ReviewUsecase) GetByOrder(ctx context.Context, orderID int64) (model.Review, error) {
	review, err := u.reviews.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Review{}, NewHTTPError(http.StatusNotFound, "review not found")
		}
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return review, nil
}

// 出品ごとの一覧。平均評価と件数を添える。
func (u *ReviewUsecase) ListByListing(ctx context.Context, listingID int64, page int, limit int) (ReviewPage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	items, total, err := u.reviews.ListByListing(ctx, listingID, page, limit)
	if err != nil {
		return ReviewPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	avg, err := u.reviews.AverageRatingByListing(ctx, listingID)
	if err != nil {
		return ReviewPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ReviewPage{Items: items, Total: total, AverageRating: avg, Page: page, Limit: limit}, nil
}

func (u *ReviewUsecase) ListMyReviews(ctx context.Context, buyerID int64) ([]model.Review, error) {
	items, err := u.reviews.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ReviewUsecase) ListingAverageRating(ctx context.Context, listingID int64) (RatingSummary, error) {
	avg, err := u.reviews.AverageRatingByListing(ctx, listingID)
	if err != nil {
		return RatingSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	count, err := u.reviews.CountByListing(ctx, listingID)
	if err != nil {
		return RatingSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return RatingSummary{AverageRating: avg, ReviewCount: count}, nil
}

// 売り手の評価。保存せず都度計算する。
func (u *ReviewUsecase) SellerAverageRating(ctx context.Context, sellerID int64) (RatingSummary, error) {
	avg, err := u.reviews.AverageRatingBySeller(ctx, sellerID)
	if err != nil {
		return RatingSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	count, err := u.reviews.CountBySeller(ctx, sellerID)
	if err != nil {
		return RatingSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return RatingSummary{AverageRating: avg, ReviewCount: count}, nil
}

// 更新は書いた本人が作成から24時間以内だけ。
func (u *ReviewUsecase) Update(ctx context.Context, reviewID int64, buyerID int64, in UpdateReviewInput) (model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var out model.Review

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		review, err := u.findEditableReview(ctx, r, reviewID, buyerID)
		if err != nil {
			return err
		}

		review.Rating = in.Rating
		review.Comment = strings.TrimSpace(in.Comment)

		if err := r.Reviews().Update(ctx, review); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = review
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}

	return out, nil
}

// 削除も同じ24時間ルール。
func (u *ReviewUsecase) Delete(ctx context.Context, reviewID int64, buyerID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		review, err := u.findEditableReview(ctx, r, reviewID, buyerID)
		if err != nil {
			return err
		}

		if err := r.Reviews().Delete(ctx, review.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 本人確認と編集期間のチェックをまとめる。
func (u *ReviewUsecase) findEditableReview(ctx context.Context, r repo.TxRepos, reviewID int64, buyerID int64) (model.Review, error) {
	review, err := r.Reviews().FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Review{}, NewHTTPError(http.StatusNotFound, "review not found")
		}
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	order, err := r.Orders().FindByID(ctx, review.OrderID)
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.BuyerID != buyerID {
		return model.Review{}, NewHTTPError(http.StatusForbidden, "not the reviewer")
	}

	if u.clock.Now().Sub(review.CreatedAt) > reviewEditWindow {
		return model.Review{}, NewHTTPError(http.StatusConflict, "edit window has passed")
	}

	return review, nil
}
