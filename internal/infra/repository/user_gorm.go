package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserGormRepository) FindByID(ctx context.Context, userID int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *UserGormRepository) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return []model.User{}, 0, err
	}

	var items []model.User
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.User{}, 0, err
	}
	return items, total, nil
}

func (r *UserGormRepository) Search(ctx context.Context, q string, page int, limit int) ([]model.User, int64, error) {
	like := "%" + q + "%"
	base := r.db.WithContext(ctx).Model(&model.User{}).
		Where("full_name ILIKE ? OR email ILIKE ?", like, like)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.User{}, 0, err
	}

	var items []model.User
	offset := (page - 1) * limit
	if err := base.Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.User{}, 0, err
	}
	return items, total, nil
}

func (r *UserGormRepository) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	var items []model.User
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&items).Error
	if err != nil {
		return []model.User{}, err
	}
	return items, nil
}

func (r *UserGormRepository) UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}

func (r *UserGormRepository) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}

func (r *UserGormRepository) UpdateProfile(ctx context.Context, userID int64, fullName string, phone string, address string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"full_name": fullName,
			"phone":     phone,
			"address":   address,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}

func (r *UserGormRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}

func (r *UserGormRepository) Delete(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}

func (r *UserGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

func (r *UserGormRepository) CountByStatus(ctx context.Context, status model.UserStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}

func (r *UserGormRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", role).
		Count(&total).Error
	return total, err
}

func (r *UserGormRepository) CountRegistrationsByDay(ctx context.Context, from time.Time, to time.Time) ([]repo.DayCount, error) {
	var rows []repo.DayCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("DATE(created_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return []repo.DayCount{}, err
	}
	return rows, nil
}

func (r *UserGormRepository) ListRecent(ctx context.Context, limit int) ([]model.User, error) {
	var items []model.User
	err := r.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&items).Error
	if err != nil {
		return []model.User{}, err
	}
	return items, nil
}
