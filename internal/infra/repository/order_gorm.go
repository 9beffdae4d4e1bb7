package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// ライフサイクルの遷移で触るフィールドをまとめて保存する。
// ゼロ値で上書きしたいフィールド（NULL化）があるのでmapで渡す。
func (r *OrderGormRepository) Save(ctx context.Context, order model.Order) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":          order.Status,
			"final_price":     order.FinalPrice,
			"confirmed_at":    order.ConfirmedAt,
			"completed_at":    order.CompletedAt,
			"borrow_due_date": order.BorrowDueDate,
			"returned_at":     order.ReturnedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("listings.seller_id = ?", sellerID).
		Order("orders.id desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListActiveByListing(ctx context.Context, listingID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status IN ?", listingID,
			[]model.OrderStatus{model.OrderStatusRequested, model.OrderStatusConfirmed}).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) CountActiveByListing(ctx context.Context, listingID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("listing_id = ? AND status IN ?", listingID,
			[]model.OrderStatus{model.OrderStatusRequested, model.OrderStatusConfirmed}).
		Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) CountActiveByBuyer(ctx context.Context, buyerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("buyer_id = ? AND status IN ?", buyerID,
			[]model.OrderStatus{model.OrderStatusRequested, model.OrderStatusConfirmed}).
		Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) ListAutoCompletableBorrow(ctx context.Context, now time.Time) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("orders.status = ?", model.OrderStatusConfirmed).
		Where("listings.listing_type = ?", model.ListingTypeLend).
		Where("orders.borrow_due_date < ?", now).
		Where("orders.returned_at IS NULL").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", model.OrderStatusCompleted).
		Select("COALESCE(SUM(final_price), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *OrderGormRepository) SumCompletedRevenueBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND completed_at BETWEEN ? AND ?", model.OrderStatusCompleted, from, to).
		Select("COALESCE(SUM(final_price), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *OrderGormRepository) AvgCompletedOrderValue(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", model.OrderStatusCompleted).
		Select("COALESCE(AVG(final_price), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *OrderGormRepository) TopSellers(ctx context.Context, limit int) ([]repo.TopSellerRow, error) {
	var rows []repo.TopSellerRow
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("listings.seller_id AS seller_id, COUNT(*) AS completed_orders, COALESCE(SUM(orders.final_price), 0) AS revenue").
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("orders.status = ?", model.OrderStatusCompleted).
		Group("listings.seller_id").
		Order("revenue desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []repo.TopSellerRow{}, err
	}
	return rows, nil
}

func (r *OrderGormRepository) CountOrdersByDay(ctx context.Context, from time.Time, to time.Time) ([]repo.DayCount, error) {
	var rows []repo.DayCount
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(order_date) AS day, COUNT(*) AS count").
		Where("order_date BETWEEN ? AND ?", from, to).
		Group("DATE(order_date)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return []repo.DayCount{}, err
	}
	return rows, nil
}

func (r *OrderGormRepository) SumRevenueByDay(ctx context.Context, from time.Time, to time.Time) ([]repo.DayAmount, error) {
	var rows []repo.DayAmount
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(completed_at) AS day, COALESCE(SUM(final_price), 0) AS amount").
		Where("status = ? AND completed_at BETWEEN ? AND ?", model.OrderStatusCompleted, from, to).
		Group("DATE(completed_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return []repo.DayAmount{}, err
	}
	return rows, nil
}

func (r *OrderGormRepository) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}
