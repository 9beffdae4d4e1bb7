package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ListingGormRepository struct {
	db *gorm.DB
}

func NewListingGormRepository(db *gorm.DB) *ListingGormRepository {
	return &ListingGormRepository{db: db}
}

func (r *ListingGormRepository) FindByID(ctx context.Context, listingID int64) (model.Listing, error) {
	var l model.Listing
	err := r.db.WithContext(ctx).Where("id = ?", listingID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Listing{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Listing{}, err
	}
	return l, nil
}

func (r *ListingGormRepository) List(ctx context.Context, f repo.ListingListQuery) ([]model.Listing, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.Listing{})

	//キーワードはタイトルと説明の部分一致
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.MinPrice != nil {
		q = q.Where("list_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("list_price <= ?", *f.MaxPrice)
	}
	if f.Condition != nil {
		q = q.Where("condition = ?", *f.Condition)
	}
	if f.ListingType != nil {
		q = q.Where("listing_type = ?", *f.ListingType)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		q = q.Where("created_at >= ?", *f.CreatedAfter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Listing{}, 0, err
	}

	order := "id desc"
	switch f.Sort {
	case "price_asc":
		order = "list_price asc"
	case "price_desc":
		order = "list_price desc"
	}

	var items []model.Listing
	offset := (f.Page - 1) * f.Limit
	if err := q.Order(order).Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Listing{}, 0, err
	}

	return items, total, nil
}

func (r *ListingGormRepository) Create(ctx context.Context, listing model.Listing) (model.Listing, error) {
	if err := r.db.WithContext(ctx).Create(&listing).Error; err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

func (r *ListingGormRepository) Update(ctx context.Context, listing model.Listing) error {
	res := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ?", listing.ID).
		Updates(map[string]interface{}{
			"category_id":  listing.CategoryID,
			"title":        listing.Title,
			"description":  listing.Description,
			"condition":    listing.Condition,
			"listing_type": listing.ListingType,
			"list_price":   listing.ListPrice,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ListingGormRepository) UpdateStatus(ctx context.Context, listingID int64, status model.ListingStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ?", listingID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ListingGormRepository) Delete(ctx context.Context, listingID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", listingID).Delete(&model.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ListingGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Listing{}).Count(&total).Error
	return total, err
}

func (r *ListingGormRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	return total, err
}

func (r *ListingGormRepository) ListRecent(ctx context.Context, limit int) ([]model.Listing, error) {
	var items []model.Listing
	err := r.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&items).Error
	if err != nil {
		return []model.Listing{}, err
	}
	return items, nil
}
