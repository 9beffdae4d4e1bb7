package repository

import (
	"context"

	"app/internal/domain/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment model.Comment) (model.Comment, error)
	FindByID(ctx context.Context, commentID int64) (model.Comment, error)

	//トップレベル（parent_id IS NULL）を作成順で
	ListTopLevelByListing(ctx context.Context, listingID int64) ([]model.Comment, error)
	ListTopLevelByListingPaged(ctx context.Context, listingID int64, page int, limit int) ([]model.Comment, int64, error)
	ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error)
	CountReplies(ctx context.Context, parentID int64) (int64, error)
	CountByListing(ctx context.Context, listingID int64) (int64, error)

	//管理者向け：全件を新しい順で
	ListAll(ctx context.Context, page int, limit int) ([]model.Comment, int64, error)

	Update(ctx context.Context, comment model.Comment) error
	Delete(ctx context.Context, commentID int64) error
	DeleteByParent(ctx context.Context, parentID int64) error
}
