package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type ListingUsecase struct {
	tx       repo.TransactionManager
	listings repo.ListingRepository
	orders   repo.OrderRepository
	comments repo.CommentRepository
	clock    Clock
}

func NewListingUsecase(
	tx repo.TransactionManager,
	listings repo.ListingRepository,
	orders repo.OrderRepository,
	comments repo.CommentRepository,
	clock Clock,
) *ListingUsecase {
	return &ListingUsecase{
		tx:       tx,
		listings: listings,
		orders:   orders,
		comments: comments,
		clock:    clock,
	}
}

// 一覧のページ情報つきレスポンス
type ListingPage struct {
	Items []model.Listing `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 詳細はコメント数を添えて返す
type ListingDetail struct {
	model.Listing
	CommentCount int64 `json:"comment_count"`
}

type CreateListingInput struct {
	CategoryID  int64           `json:"category_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Condition   string          `json:"condition"`
	ListingType string          `json:"listing_type"`
	ListPrice   decimal.Decimal `json:"list_price"`
}

// 部分更新。nilのフィールドは変更しない。
type UpdateListingInput struct {
	CategoryID  *int64           `json:"category_id"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Condition   *string          `json:"condition"`
	ListingType *string          `json:"listing_type"`
	ListPrice   *decimal.Decimal `json:"list_price"`
}

// 検索・絞り込みの入力。ゼロ値は条件に使わない。
type BrowseListingsInput struct {
	Page        int
	Limit       int
	Q           string
	CategoryID  int64
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Condition   string
	ListingType string
	Sort        string
}

// AVAILABLEな出品を条件つきで一覧する。公開側の入口は全部これ。
func (u *ListingUsecase) Browse(ctx context.Context, in BrowseListingsInput) (ListingPage, error) {
	q := repo.ListingListQuery{
		Page:  normalizePage(in.Page),
		Limit: normalizeLimit(in.Limit),
		Q:     strings.TrimSpace(in.Q),
		Sort:  in.Sort,
	}

	available := model.ListingStatusAvailable
	q.Status = &available

	if in.CategoryID > 0 {
		q.CategoryID = &in.CategoryID
	}
	if in.MinPrice != nil {
		if in.MinPrice.IsNegative() {
			return ListingPage{}, NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		q.MinPrice = in.MinPrice
	}
	if in.MaxPrice != nil {
		if in.MaxPrice.IsNegative() {
			return ListingPage{}, NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		q.MaxPrice = in.MaxPrice
	}
	if in.Condition != "" {
		cond, err := model.ParseListingCondition(in.Condition)
		if err != nil {
			return ListingPage{}, NewHTTPError(http.StatusBadRequest, "invalid condition")
		}
		q.Condition = &cond
	}
	if in.ListingType != "" {
		lt, err := model.ParseListingType(in.ListingType)
		if err != nil {
			return ListingPage{}, NewHTTPError(http.StatusBadRequest, "invalid listing_type")
		}
		q.ListingType = &lt
	}

	return u.list(ctx, q)
}

// 直近30日の出品
func (u *ListingUsecase) Recent(ctx context.Context, page int, limit int) (ListingPage, error) {
	available := model.ListingStatusAvailable
	after := u.clock.Now().AddDate(0, 0, -30)

	q := repo.ListingListQuery{
		Page:         normalizePage(page),
		Limit:        normalizeLimit(limit),
		Status:       &available,
		CreatedAfter: &after,
		Sort:         "new",
	}

	return u.list(ctx, q)
}

// 指定ユーザーの出品（公開プロフィール・本人のマイ出品兼用）
func (u *ListingUsecase) ListBySeller(ctx context.Context, sellerID int64, page int, limit int) (ListingPage, error) {
	q := repo.ListingListQuery{
		Page:     normalizePage(page),
		Limit:    normalizeLimit(limit),
		SellerID: &sellerID,
	}
	return u.list(ctx, q)
}

func (u *ListingUsecase) GetByID(ctx context.Context, listingID int64) (ListingDetail, error) {
	listing, err := u.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ListingDetail{}, NewHTTPError(http.StatusNotFound, "listing not found")
		}
		return ListingDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	count, err := u.comments.CountByListing(ctx, listingID)
	if err != nil {
		return ListingDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ListingDetail{Listing: listing, CommentCount: count}, nil
}

// 出品作成。カテゴリの存在確認までTxでやる。
func (u *ListingUsecase) Create(ctx context.Context, sellerID int64, in CreateListingInput) (model.Listing, error) {
	if sellerID <= 0 {
		return model.Listing{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 200 {
		return model.Listing{}, NewHTTPError(http.StatusBadRequest, "invalid title")
	}
	if len(in.Description) > 5000 {
		return model.Listing{}, NewHTTPError(http.StatusBadRequest, "description too long")
	}
	cond, err := model.ParseListingCondition(in.Condition)
	if err != nil {
		return model.Listing{}, NewHTTPError(http.StatusBadRequest, "invalid condition")
	}
	lt, err := model.ParseListingType(in.ListingType)
	if err != nil {
		return model.Listing{}, NewHTTPError(http.StatusBadRequest, "invalid listing_type")
	}
	if !validPrice(in.ListPrice) {
		return model.Listing{}, NewHTTPError(http.StatusBadRequest, "invalid list_price")
	}

	var out model.Listing

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Categories().FindByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "category not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		listing := model.Listing{
			SellerID:    sellerID,
			CategoryID:  in.CategoryID,
			Title:       title,
			Description: in.Description,
			Condition:   cond,
			ListingType: lt,
			ListPrice:   in.ListPrice,
			Status:      model.ListingStatusAvailable,
		}

		created, err := r.Listings().Create(ctx, listing)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = created
		return nil
	})
	if err != nil {
		return model.Listing{}, err
	}

	return out, nil
}

// 更新はオーナーのみ、AVAILABLEの間だけ。
func (u *ListingUsecase) Update(ctx context.Context, listingID int64, sellerID int64, in UpdateListingInput) (model.Listing, error) {
	var out model.Listing

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		listing, err := r.Listings().FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "listing not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if listing.SellerID != sellerID {
			return NewHTTPError(http.StatusForbidden, "not the owner")
		}
		if listing.Status != model.ListingStatusAvailable {
			return NewHTTPError(http.StatusConflict, "listing is not available")
		}

		if in.CategoryID != nil {
			if _, err := r.Categories().FindByID(ctx, *in.CategoryID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "category not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			listing.CategoryID = *in.CategoryID
		}
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" || len(title) > 200 {
				return NewHTTPError(http.StatusBadRequest, "invalid title")
			}
			listing.Title = title
		}
		if in.Description != nil {
			if len(*in.Description) > 5000 {
				return NewHTTPError(http.StatusBadRequest, "description too long")
			}
			listing.Description = *in.Description
		}
		if in.Condition != nil {
			cond, err := model.ParseListingCondition(*in.Condition)
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, "invalid condition")
			}
			listing.Condition = cond
		}
		if in.ListingType != nil {
			lt, err := model.ParseListingType(*in.ListingType)
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, "invalid listing_type")
			}
			listing.ListingType = lt
		}
		if in.ListPrice != nil {
			if !validPrice(*in.ListPrice) {
				return NewHTTPError(http.StatusBadRequest, "invalid list_price")
			}
			listing.ListPrice = *in.ListPrice
		}

		if err := r.Listings().Update(ctx, listing); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = listing
		return nil
	})
	if err != nil {
		return model.Listing{}, err
	}

	return out, nil
}

// 削除はオーナーのみ、AVAILABLEの間だけ。
func (u *ListingUsecase) Delete(ctx context.Context, listingID int64, sellerID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		listing, err := r.Listings().FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "listing not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if listing.SellerID != sellerID {
			return NewHTTPError(http.StatusForbidden, "not the owner")
		}
		if listing.Status != model.ListingStatusAvailable {
			return NewHTTPError(http.StatusConflict, "listing is not available")
		}

		if err := r.Listings().Delete(ctx, listingID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 管理者向け：全件（statusで絞り込み可）
func (u *ListingUsecase) AdminList(ctx context.Context, status string, page int, limit int) (ListingPage, error) {
	q := repo.ListingListQuery{
		Page:  normalizePage(page),
		Limit: normalizeLimit(limit),
	}
	if status != "" {
		st, err := model.ParseListingStatus(status)
		if err != nil {
			return ListingPage{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		q.Status = &st
	}
	return u.list(ctx, q)
}

// 管理者による強制ステータス変更。監査ログを残す。
func (u *ListingUsecase) AdminOverrideStatus(ctx context.Context, actorID int64, listingID int64, status string) (model.Listing, error) {
	st, err := model.ParseListingStatus(status)
	if err != nil {
		return model.Listing{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out model.Listing

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		listing, err := r.Listings().FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "listing not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := listing.Status

		if err := r.Listings().UpdateStatus(ctx, listingID, st); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := writeAudit(ctx, r, actorID, model.AuditActionOverrideListingStatus,
			model.AuditResourceListing, listingID,
			map[string]any{"status": before},
			map[string]any{"status": st},
			u.clock.Now(),
		); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		listing.Status = st
		out = listing
		return nil
	})
	if err != nil {
		return model.Listing{}, err
	}

	return out, nil
}

// 管理者による強制削除。アクティブな注文が残っている間は拒否。
func (u *ListingUsecase) AdminDelete(ctx context.Context, actorID int64, listingID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		listing, err := r.Listings().FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "listing not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		active, err := r.Orders().CountActiveByListing(ctx, listingID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if active > 0 {
			return NewHTTPError(http.StatusConflict, "listing has active orders")
		}

		if err := r.Listings().Delete(ctx, listingID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := writeAudit(ctx, r, actorID, model.AuditActionDeleteListing,
			model.AuditResourceListing, listingID,
			map[string]any{"title": listing.Title, "status": listing.Status},
			nil,
			u.clock.Now(),
		); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *ListingUsecase) list(ctx context.Context, q repo.ListingListQuery) (ListingPage, error) {
	items, total, err := u.listings.List(ctx, q)
	if err != nil {
		return ListingPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ListingPage{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

// 監査ログの書き込み。before/afterはJSON文字列で残す。
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actorID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before any,
	after any,
	now time.Time,
) error {
	beforeJSON, err := marshalAudit(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalAudit(after)
	if err != nil {
		return err
	}

	return r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    now,
	})
}

func marshalAudit(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
