package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CommentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) *CommentGormRepository {
	return &CommentGormRepository{db: db}
}

func (r *CommentGormRepository) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	if err := r.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}

func (r *CommentGormRepository) FindByID(ctx context.Context, commentID int64) (model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Comment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

func (r *CommentGormRepository) ListTopLevelByListing(ctx context.Context, listingID int64) ([]model.Comment, error) {
	var items []model.Comment
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND parent_id IS NULL", listingID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return []model.Comment{}, err
	}
	return items, nil
}

func (r *CommentGormRepository) ListTopLevelByListingPaged(ctx context.Context, listingID int64, page int, limit int) ([]model.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("listing_id = ? AND parent_id IS NULL", listingID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Comment{}, 0, err
	}

	var items []model.Comment
	offset := (page - 1) * limit
	if err := base.Order("created_at asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Comment{}, 0, err
	}
	return items, total, nil
}

func (r *CommentGormRepository) ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	var items []model.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return []model.Comment{}, err
	}
	return items, nil
}

func (r *CommentGormRepository) CountReplies(ctx context.Context, parentID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("parent_id = ?", parentID).
		Count(&total).Error
	return total, err
}

func (r *CommentGormRepository) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("listing_id = ?", listingID).
		Count(&total).Error
	return total, err
}

func (r *CommentGormRepository) ListAll(ctx context.Context, page int, limit int) ([]model.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&total).Error; err != nil {
		return []model.Comment{}, 0, err
	}

	var items []model.Comment
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Comment{}, 0, err
	}
	return items, total, nil
}

func (r *CommentGormRepository) Update(ctx context.Context, comment model.Comment) error {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", comment.ID).
		Update("content", comment.Content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CommentGormRepository) Delete(ctx context.Context, commentID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&model.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CommentGormRepository) DeleteByParent(ctx context.Context, parentID int64) error {
	return r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Delete(&model.Comment{}).Error
}
