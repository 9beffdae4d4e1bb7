package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 注文ライフサイクル。
// REQUESTED → CONFIRMED/REJECTED、CONFIRMED → COMPLETED/CANCELLED。
// 終端（REJECTED/CANCELLED/COMPLETED）からの遷移は拒否する。
type OrderUsecase struct {
	tx           repo.TransactionManager
	orders       repo.OrderRepository
	listings     repo.ListingRepository
	clock        Clock
	borrowPeriod time.Duration
	log          zerolog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	listings repo.ListingRepository,
	clock Clock,
	borrowPeriodDays int,
	log zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		orders:       orders,
		listings:     listings,
		clock:        clock,
		borrowPeriod: time.Duration(borrowPeriodDays) * 24 * time.Hour,
		log:          log,
	}
}

type CreateOrderInput struct {
	ListingID  int64           `json:"listing_id"`
	OfferPrice decimal.Decimal `json:"offer_price"`
}

// 注文作成。REQUESTEDで作るだけで出品ステータスは触らない
// （複数の買い手が同じ出品に申し込める。確定できるのは1人だけ）。
func (u *OrderUsecase) Create(ctx context.Context, buyerID int64, in CreateOrderInput) (model.Order, error) {
	if buyerID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ListingID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid listing_id")
	}
	if !validPrice(in.OfferPrice) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid offer_price")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//買い手の存在確認
		if _, err := r.Users().FindByID(ctx, buyerID); err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		listing, err := r.Listings().FindByID(ctx, in.ListingID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "listing not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//自分の出品には注文できない
		if listing.SellerID == buyerID {
			return NewHTTPError(http.StatusForbidden, "cannot order own listing")
		}

		if listing.Status != model.ListingStatusAvailable {
			return NewHTTPError(http.StatusConflict, "listing is not available")
		}

		//同じ買い手のアクティブ注文は1件まで
		active, err := r.Orders().ListActiveByListing(ctx, in.ListingID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, o := range active {
			if o.BuyerID == buyerID {
				return NewHTTPError(http.StatusConflict, "active order already exists")
			}
		}

		order := model.Order{
			ListingID:  in.ListingID,
			BuyerID:    buyerID,
			OfferPrice: in.OfferPrice,
			Status:     model.OrderStatusRequested,
			OrderDate:  u.clock.Now(),
		}

		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = id

		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	return out, nil
}

// 確定。final_price = offer_price（値引き交渉はしない）。
// 出品がAVAILABLEでなければ確定できない。2つの注文が同時に
// 確定状態へ進むのをTx内の再チェックで防ぐ。
func (u *OrderUsecase) Confirm(ctx context.Context, orderID int64, sellerID int64) (model.Order, error) {
	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, listing, err := findOrderWithListing(ctx, r, orderID)
		if err != nil {
			return err
		}

		if listing.SellerID != sellerID {
			return NewHTTPError(http.StatusForbidden, "not the seller")
		}
		if order.Status != model.OrderStatusRequested {
			return NewHTTPError(http.StatusConflict, "order is not requested")
		}
		if listing.Status != model.ListingStatusAvailable {
			return NewHTTPError(http.StatusConflict, "listing is not available")
		}

		now := u.clock.Now()
		finalPrice := order.OfferPrice

		order.Status = model.OrderStatusConfirmed
		order.ConfirmedAt = &now
		order.FinalPrice = &finalPrice

		listingStatus := model.ListingStatusSold
		if listing.ListingType == model.ListingTypeLend {
			due := now.Add(u.borrowPeriod)
			order.BorrowDueDate = &due
			listingStatus = model.ListingStatusBorrowed
		}

		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Listings().UpdateStatus(ctx, listing.ID, listingStatus); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	return out, nil
}

// 拒否。REQUESTED → REJECTED。出品ステータスは触らない。
func (u *OrderUsecase) Reject(ctx context.Context, orderID int64, sellerID int64) (model.Order, error) {
	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, listing, err := findOrderWithListing(ctx, r, orderID)
		if err != nil {
			return err
		}

		if listing.SellerID != sellerID {
			return NewHTTPError(http.StatusForbidden, "not the seller")
		}
		if order.Status != model.OrderStatusRequested {
			return NewHTTPError(http.StatusConflict, "order is not requested")
		}

		order.Status = model.OrderStatusRejected

		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	return out, nil
}

// キャンセル。REQUESTED/CONFIRMED → CANCELLED。
// 上書き前のステータスを控えておき、CONFIRMEDからのキャンセルなら
// 出品をAVAILABLEに戻す。
func (u *OrderUsecase) Cancel(ctx context.Context, orderID int64, buyerID int64) (model.Order, error) {
	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, listing, err := findOrderWithListing(ctx, r, orderID)
		if err != nil {
			return err
		}

		if order.BuyerID != buyerID {
			return NewHTTPError(http.StatusForbidden, "not the buyer")
		}
		if !order.Status.IsActive() {
			return NewHTTPError(http.StatusConflict, "order cannot be cancelled")
		}

		prev := order.Status
		order.Status = model.OrderStatusCancelled

		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if prev == model.OrderStatusConfirmed {
			if err := r.Listings().UpdateStatus(ctx, listing.ID, model.ListingStatusAvailable); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	return out, nil
}

// 完了。CONFIRMED → COMPLETED。
// 貸出（LEND）は買い手だけが完了できる＝返却扱いで出品をAVAILABLEに戻す。
// 売買（SELL）は売り手だけが完了でき、出品はSOLDのまま。
func (u *OrderUsecase) Complete(ctx context.Context, orderID int64, userID int64) (model.Order, error) {
	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, listing, err := findOrderWithListing(ctx, r, orderID)
		if err != nil {
			return err
		}

		if order.Status != model.OrderStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "order is not confirmed")
		}

		now := u.clock.Now()

		if listing.ListingType == model.ListingTypeLend {
			if order.BuyerID != userID {
				return NewHTTPError(http.StatusForbidden, "only the buyer can complete a lend order")
			}
			order.ReturnedAt = &now
		} else {
			if listing.SellerID != userID {
				return NewHTTPError(http.StatusForbidden, "only the seller can complete a sell order")
			}
		}

		order.Status = model.OrderStatusCompleted
		order.CompletedAt = &now

		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if listing.ListingType == model.ListingTypeLend {
			if err := r.Listings().UpdateStatus(ctx, listing.ID, model.ListingStatusAvailable); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	return out, nil
}

// 期限切れ貸出のスイープ。1件ずつ独立したTxで完了させ、
// 失敗はログに残して次へ進む。statusとreturned_atのフィルタで
// 再実行しても安全（処理済みは選ばれない）。
func (u *OrderUsecase) ProcessOverdueBorrowOrders(ctx context.Context) (int, error) {
	now := u.clock.Now()

	candidates, err := u.orders.ListAutoCompletableBorrow(ctx, now)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	processed := 0
	for _, candidate := range candidates {
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			order, err := r.Orders().FindByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			//別経路で先に完了していたらスキップ
			if order.Status != model.OrderStatusConfirmed {
				return nil
			}

			order.Status = model.OrderStatusCompleted
			order.CompletedAt = &now

			if err := r.Orders().Save(ctx, order); err != nil {
				return err
			}
			return r.Listings().UpdateStatus(ctx, order.ListingID, model.ListingStatusAvailable)
		})
		if err != nil {
			u.log.Error().Err(err).
				Int64("order_id", candidate.ID).
				Int64("listing_id", candidate.ListingID).
				Msg("overdue borrow sweep: failed to complete order")
			continue
		}
		processed++
	}

	return processed, nil
}

// 取得。買い手か売り手だけが見られる。
func (u *OrderUsecase) GetByID(ctx context.Context, orderID int64, userID int64) (model.Order, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	listing, err := u.listings.FindByID(ctx, order.ListingID)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if order.BuyerID != userID && listing.SellerID != userID {
		return model.Order{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return order, nil
}

// 自分の注文（買い手視点）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, buyerID int64) ([]model.Order, error) {
	items, err := u.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 自分の出品に入った注文（売り手視点）
func (u *OrderUsecase) ListSales(ctx context.Context, sellerID int64) ([]model.Order, error) {
	items, err := u.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 注文と対応する出品をまとめて引く。どの遷移も最初にこれをやる。
func findOrderWithListing(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, model.Listing, error) {
	order, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, model.Listing{}, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return model.Order{}, model.Listing{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	listing, err := r.Listings().FindByID(ctx, order.ListingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, model.Listing{}, NewHTTPError(http.StatusNotFound, "listing not found")
		}
		return model.Order{}, model.Listing{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return order, listing, nil
}
