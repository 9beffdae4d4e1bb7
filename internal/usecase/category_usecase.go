package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	tx         repo.TransactionManager
	categories repo.CategoryRepository
	listings   repo.ListingRepository
}

func NewCategoryUsecase(
	tx repo.TransactionManager,
	categories repo.CategoryRepository,
	listings repo.ListingRepository,
) *CategoryUsecase {
	return &CategoryUsecase{
		tx:         tx,
		categories: categories,
		listings:   listings,
	}
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryPage struct {
	Items []model.Category `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type CategoryWithCount struct {
	model.Category
	ListingCount int64 `json:"listing_count"`
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CategoryUsecase) ListPaged(ctx context.Context, page int, limit int) (CategoryPage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	items, total, err := u.categories.ListPaged(ctx, page, limit)
	if err != nil {
		return CategoryPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CategoryPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// 出品数つき一覧。カテゴリ数は少ないのでN+1でも許容する。
func (u *CategoryUsecase) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	items, err := u.categories.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CategoryWithCount, 0, len(items))
	for _, c := range items {
		count, err := u.listings.CountByCategory(ctx, c.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = append(out, CategoryWithCount{Category: c, ListingCount: count})
	}

	return out, nil
}

func (u *CategoryUsecase) GetByID(ctx context.Context, categoryID int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
		}
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) Search(ctx context.Context, q string) ([]model.Category, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return u.List(ctx)
	}

	items, err := u.categories.Search(ctx, q)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 管理者向け：作成。名前はユニーク。
func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	var out model.Category

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Categories().FindByName(ctx, name); err == nil {
			return NewHTTPError(http.StatusConflict, "category name already exists")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := r.Categories().Create(ctx, model.Category{
			Name:        name,
			Description: in.Description,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = created
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}

	return out, nil
}

// 管理者向け：更新。改名先が使われていたら409。
func (u *CategoryUsecase) Update(ctx context.Context, categoryID int64, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	var out model.Category

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		category, err := r.Categories().FindByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "category not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if existing, err := r.Categories().FindByName(ctx, name); err == nil {
			if existing.ID != categoryID {
				return NewHTTPError(http.StatusConflict, "category name already exists")
			}
		} else if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		category.Name = name
		category.Description = in.Description

		if err := r.Categories().Update(ctx, category); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = category
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}

	return out, nil
}

// 管理者向け：削除。出品が残っている間は拒否。
func (u *CategoryUsecase) Delete(ctx context.Context, categoryID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Categories().FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "category not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		count, err := r.Listings().CountByCategory(ctx, categoryID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if count > 0 {
			return NewHTTPError(http.StatusConflict, "category has listings")
		}

		if err := r.Categories().Delete(ctx, categoryID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
