package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type AnalyticsUsecase struct {
	users    repo.UserRepository
	listings repo.ListingRepository
	orders   repo.OrderRepository
	reviews  repo.ReviewRepository
	clock    Clock
}

func NewAnalyticsUsecase(
	users repo.UserRepository,
	listings repo.ListingRepository,
	orders repo.OrderRepository,
	reviews repo.ReviewRepository,
	clock Clock,
) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		users:    users,
		listings: listings,
		orders:   orders,
		reviews:  reviews,
		clock:    clock,
	}
}

type TopSeller struct {
	SellerID        int64           `json:"seller_id"`
	FullName        string          `json:"full_name"`
	CompletedOrders int64           `json:"completed_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
}

type RecentActivity struct {
	Users    []model.User    `json:"users"`
	Listings []model.Listing `json:"listings"`
	Orders   []model.Order   `json:"orders"`
}

type Dashboard struct {
	TotalUsers       int64           `json:"total_users"`
	TotalListings    int64           `json:"total_listings"`
	TotalOrders      int64           `json:"total_orders"`
	CompletedOrders  int64           `json:"completed_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`
	AvgRating        float64         `json:"avg_rating"`
	TopSellers       []TopSeller     `json:"top_sellers"`
	RecentActivity   RecentActivity  `json:"recent_activity"`
}

type DayCountPoint struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type DayAmountPoint struct {
	Day    string          `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// ダッシュボード。集計は全部読み取りなのでTxは張らない。
func (u *AnalyticsUsecase) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	var err error

	if d.TotalUsers, err = u.users.Count(ctx); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.TotalListings, err = u.listings.Count(ctx); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.TotalOrders, err = u.orders.Count(ctx); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.CompletedOrders, err = u.orders.CountByStatus(ctx, model.OrderStatusCompleted); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.TotalRevenue, err = u.orders.SumCompletedRevenue(ctx); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if d.RevenueThisMonth, err = u.orders.SumCompletedRevenueBetween(ctx, monthStart, now); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if d.AvgOrderValue, err = u.orders.AvgCompletedOrderValue(ctx); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.AvgRating, err = u.reviews.AverageRatingOverall(ctx); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows, err := u.orders.TopSellers(ctx, 5)
	if err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	d.TopSellers = make([]TopSeller, 0, len(rows))
	for _, row := range rows {
		seller := TopSeller{
			SellerID:        row.SellerID,
			CompletedOrders: row.CompletedOrders,
			Revenue:         row.Revenue,
		}
		//消されたセラーは名前なしで出す
		if user, err := u.users.FindByID(ctx, row.SellerID); err == nil {
			seller.FullName = user.FullName
		}
		d.TopSellers = append(d.TopSellers, seller)
	}

	if d.RecentActivity.Users, err = u.users.ListRecent(ctx, 5); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.RecentActivity.Listings, err = u.listings.ListRecent(ctx, 5); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.RecentActivity.Orders, err = u.orders.ListRecent(ctx, 5); err != nil {
		return Dashboard{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return d, nil
}

// 日別の登録数
func (u *AnalyticsUsecase) RegistrationsByDay(ctx context.Context, from time.Time, to time.Time) ([]DayCountPoint, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}

	rows, err := u.users.CountRegistrationsByDay(ctx, from, to)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toDayCountPoints(rows), nil
}

// 日別の注文数
func (u *AnalyticsUsecase) OrdersByDay(ctx context.Context, from time.Time, to time.Time) ([]DayCountPoint, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}

	rows, err := u.orders.CountOrdersByDay(ctx, from, to)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toDayCountPoints(rows), nil
}

// 日別の売上（完了注文のfinal_price合計）
func (u *AnalyticsUsecase) RevenueByDay(ctx context.Context, from time.Time, to time.Time) ([]DayAmountPoint, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}

	rows, err := u.orders.SumRevenueByDay(ctx, from, to)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]DayAmountPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, DayAmountPoint{
			Day:    row.Day.Format("2006-01-02"),
			Amount: row.Amount,
		})
	}
	return out, nil
}

func validRange(from time.Time, to time.Time) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return NewHTTPError(http.StatusBadRequest, "invalid date range")
	}
	return nil
}

func toDayCountPoints(rows []repo.DayCount) []DayCountPoint {
	out := make([]DayCountPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, DayCountPoint{
			Day:   row.Day.Format("2006-01-02"),
			Count: row.Count,
		})
	}
	return out
}
