package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// コメントの編集を許す期間
const commentEditWindow = 15 * time.Minute

type CommentUsecase struct {
	tx       repo.TransactionManager
	comments repo.CommentRepository
	listings repo.ListingRepository
	clock    Clock
}

func NewCommentUsecase(
	tx repo.TransactionManager,
	comments repo.CommentRepository,
	listings repo.ListingRepository,
	clock Clock,
) *CommentUsecase {
	return &CommentUsecase{
		tx:       tx,
		comments: comments,
		listings: listings,
		clock:    clock,
	}
}

type CreateCommentInput struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

type UpdateCommentInput struct {
	Content string `json:"content"`
}

// スレッド表示用。返信はトップレベルにぶら下げて返す。
type CommentThread struct {
	model.Comment
	Replies []model.Comment `json:"replies"`
}

type CommentPage struct {
	Items []model.Comment `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// コメント投稿。parent_idがあれば返信（スレッドは1段まで）。
func (u *CommentUsecase) Create(ctx context.Context, userID int64, listingID int64, in CreateCommentInput) (model.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" || len(content) > 2000 {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "invalid content")
	}

	var out model.Comment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Listings().FindByID(ctx, listingID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "listing not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if in.ParentID != nil {
			parent, err := r.Comments().FindByID(ctx, *in.ParentID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "parent comment not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if parent.ListingID != listingID {
				return NewHTTPError(http.StatusBadRequest, "parent belongs to another listing")
			}
			//返信への返信は不可
			if parent.ParentID != nil {
				return NewHTTPError(http.StatusBadRequest, "cannot reply to a reply")
			}
		}

		comment := model.Comment{
			ListingID: listingID,
			UserID:    userID,
			ParentID:  in.ParentID,
			Content:   content,
			CreatedAt: u.clock.Now(),
		}

		created, err := r.Comments().Create(ctx, comment)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = created
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	return out, nil
}

// スレッド形式の一覧。
func (u *CommentUsecase) ListThreaded(ctx context.Context, listingID int64) ([]CommentThread, error) {
	top, err := u.comments.ListTopLevelByListing(ctx, listingID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	threads := make([]CommentThread, 0, len(top))
	for _, c := range top {
		replies, err := u.comments.ListReplies(ctx, c.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		threads = append(threads, CommentThread{Comment: c, Replies: replies})
	}

	return threads, nil
}

func (u *CommentUsecase) ListTopLevel(ctx context.Context, listingID int64, page int, limit int) (CommentPage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	items, total, err := u.comments.ListTopLevelByListingPaged(ctx, listingID, page, limit)
	if err != nil {
		return CommentPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CommentPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *CommentUsecase) ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	if _, err := u.comments.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.comments.ListReplies(ctx, parentID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CommentUsecase) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	count, err := u.comments.CountByListing(ctx, listingID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return count, nil
}

// 更新は本人が投稿から15分以内だけ。
func (u *CommentUsecase) Update(ctx context.Context, commentID int64, userID int64, in UpdateCommentInput) (model.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" || len(content) > 2000 {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "invalid content")
	}

	var out model.Comment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		comment, err := r.Comments().FindByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "comment not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if comment.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "not the author")
		}
		if u.clock.Now().Sub(comment.CreatedAt) > commentEditWindow {
			return NewHTTPError(http.StatusConflict, "edit window has passed")
		}

		comment.Content = content

		if err := r.Comments().Update(ctx, comment); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = comment
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	return out, nil
}

// 削除は本人のみ。返信がついたら消せない。
func (u *CommentUsecase) Delete(ctx context.Context, commentID int64, userID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		comment, err := r.Comments().FindByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "comment not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if comment.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "not the author")
		}

		replies, err := r.Comments().CountReplies(ctx, commentID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if replies > 0 {
			return NewHTTPError(http.StatusConflict, "comment has replies")
		}

		if err := r.Comments().Delete(ctx, commentID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 管理者向け：全コメント
func (u *CommentUsecase) AdminList(ctx context.Context, page int, limit int) (CommentPage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	items, total, err := u.comments.ListAll(ctx, page, limit)
	if err != nil {
		return CommentPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CommentPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// 管理者による強制削除。返信ごと消して監査ログを残す。
func (u *CommentUsecase) AdminDelete(ctx context.Context, actorID int64, commentID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		comment, err := r.Comments().FindByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "comment not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Comments().DeleteByParent(ctx, commentID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Comments().Delete(ctx, commentID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := writeAudit(ctx, r, actorID, model.AuditActionDeleteComment,
			model.AuditResourceComment, commentID,
			map[string]any{"listing_id": comment.ListingID, "user_id": comment.UserID, "content": comment.Content},
			nil,
			u.clock.Now(),
		); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 一括削除。1件の失敗で止めず、消せた件数を返す。
func (u *CommentUsecase) AdminBulkDelete(ctx context.Context, actorID int64, commentIDs []int64) (int, error) {
	if len(commentIDs) == 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "no comment ids")
	}

	deleted := 0
	for _, id := range commentIDs {
		if err := u.AdminDelete(ctx, actorID, id); err != nil {
			continue
		}
		deleted++
	}

	return deleted, nil
}
