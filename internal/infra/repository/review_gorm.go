package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).Where("id = ?", reviewID).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("order_id = ?", orderID).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *ReviewGormRepository) ListByListing(ctx context.Context, listingID int64, page int, limit int) ([]model.Review, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Review{}).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.listing_id = ?", listingID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Review{}, 0, err
	}

	var items []model.Review
	offset := (page - 1) * limit
	err := base.Order("reviews.created_at desc").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return []model.Review{}, 0, err
	}
	return items, total, nil
}

func (r *ReviewGormRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Review, error) {
	var items []model.Review
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.buyer_id = ?", buyerID).
		Order("reviews.created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Review{}, err
	}
	return items, nil
}

func (r *ReviewGormRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Review, error) {
	var items []model.Review
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("listings.seller_id = ?", sellerID).
		Order("reviews.created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Review{}, err
	}
	return items, nil
}

func (r *ReviewGormRepository) AverageRatingByListing(ctx context.Context, listingID int64) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.listing_id = ?", listingID).
		Select("COALESCE(AVG(reviews.rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *ReviewGormRepository) AverageRatingBySeller(ctx context.Context, sellerID int64) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("listings.seller_id = ?", sellerID).
		Select("COALESCE(AVG(reviews.rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *ReviewGormRepository) AverageRatingOverall(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *ReviewGormRepository) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.listing_id = ?", listingID).
		Count(&total).Error
	return total, err
}

func (r *ReviewGormRepository) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("listings.seller_id = ?", sellerID).
		Count(&total).Error
	return total, err
}

func (r *ReviewGormRepository) Update(ctx context.Context, review model.Review) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"comment": review.Comment,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) Delete(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", reviewID).Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
