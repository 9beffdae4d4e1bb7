package repository

import (
	"context"

	"app/internal/domain/model"
)

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]model.Category, error)
	ListPaged(ctx context.Context, page int, limit int) ([]model.Category, int64, error)
	FindByID(ctx context.Context, categoryID int64) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)
	Search(ctx context.Context, q string) ([]model.Category, error)

	Create(ctx context.Context, category model.Category) (model.Category, error)
	Update(ctx context.Context, category model.Category) error
	Delete(ctx context.Context, categoryID int64) error
}
