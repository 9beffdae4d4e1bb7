package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type UserUsecase struct {
	tx       repo.TransactionManager
	users    repo.UserRepository
	listings repo.ListingRepository
	orders   repo.OrderRepository
	reviews  repo.ReviewRepository
	clock    Clock
}

func NewUserUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	listings repo.ListingRepository,
	orders repo.OrderRepository,
	reviews repo.ReviewRepository,
	clock Clock,
) *UserUsecase {
	return &UserUsecase{
		tx:       tx,
		users:    users,
		listings: listings,
		orders:   orders,
		reviews:  reviews,
		clock:    clock,
	}
}

// 公開プロフィール。メール以外の連絡先は出さない。
type UserProfile struct {
	UserID        int64   `json:"user_id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type UpdateProfileInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type UserPage struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type UserStatistics struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	InactiveUsers int64 `json:"inactive_users"`
	Students      int64 `json:"students"`
	Admins        int64 `json:"admins"`
}

// 公開プロフィール。売り手としての評価を添える。
func (u *UserUsecase) GetProfile(ctx context.Context, userID int64) (UserProfile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return UserProfile{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		return UserProfile{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	avg, err := u.reviews.AverageRatingBySeller(ctx, userID)
	if err != nil {
		return UserProfile{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	count, err := u.reviews.CountBySeller(ctx, userID)
	if err != nil {
		return UserProfile{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return UserProfile{
		UserID:        user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		Role:          string(user.Role),
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

// 自分のプロフィール更新
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (model.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" || len(fullName) > 100 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid full_name")
	}
	if len(in.Phone) > 20 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid phone")
	}
	if len(in.Address) > 255 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid address")
	}

	if err := u.users.UpdateProfile(ctx, userID, fullName, in.Phone, in.Address); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// 管理者向け：一覧
func (u *UserUsecase) AdminList(ctx context.Context, page int, limit int) (UserPage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	items, total, err := u.users.List(ctx, page, limit)
	if err != nil {
		return UserPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return UserPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// 管理者向け：名前かメールで検索
func (u *UserUsecase) AdminSearch(ctx context.Context, q string, page int, limit int) (UserPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return u.AdminList(ctx, page, limit)
	}

	page = normalizePage(page)
	limit = normalizeLimit(limit)

	items, total, err := u.users.Search(ctx, q, page, limit)
	if err != nil {
		return UserPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return UserPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *UserUsecase) AdminGet(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *UserUsecase) AdminListActive(ctx context.Context) ([]model.User, error) {
	items, err := u.users.ListByStatus(ctx, model.UserStatusActive)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 管理者向け：ステータス変更。監査ログを残す。
func (u *UserUsecase) AdminUpdateStatus(ctx context.Context, actorID int64, userID int64, status string) (model.User, error) {
	st, err := model.ParseUserStatus(status)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out model.User

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := user.Status
		now := u.clock.Now()

		if err := r.Users().UpdateStatus(ctx, userID, st); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//停止したユーザーのセッションは残さない
		if st == model.UserStatusInactive {
			if err := r.RefreshTokens().RevokeAllForUser(ctx, userID, now); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := writeAudit(ctx, r, actorID, model.AuditActionUpdateUserStatus,
			model.AuditResourceUser, userID,
			map[string]any{"status": before},
			map[string]any{"status": st},
			now,
		); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		user.Status = st
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return out, nil
}

// 管理者向け：ロール変更。自分自身の降格は拒否。
func (u *UserUsecase) AdminUpdateRole(ctx context.Context, actorID int64, userID int64, role string) (model.User, error) {
	newRole, err := model.ParseRole(role)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if actorID == userID {
		return model.User{}, NewHTTPError(http.StatusConflict, "cannot change own role")
	}

	var out model.User

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := user.Role

		if err := r.Users().UpdateRole(ctx, userID, newRole); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := writeAudit(ctx, r, actorID, model.AuditActionUpdateUserRole,
			model.AuditResourceUser, userID,
			map[string]any{"role": before},
			map[string]any{"role": newRole},
			u.clock.Now(),
		); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		user.Role = newRole
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return out, nil
}

// 管理者向け：削除。アクティブ注文か公開中の出品が残っていたら拒否。
func (u *UserUsecase) AdminDelete(ctx context.Context, actorID int64, userID int64) error {
	if actorID == userID {
		return NewHTTPError(http.StatusConflict, "cannot delete own account")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByID(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		active, err := r.Orders().CountActiveByBuyer(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if active > 0 {
			return NewHTTPError(http.StatusConflict, "user has active orders")
		}

		available := model.ListingStatusAvailable
		_, listingCount, err := r.Listings().List(ctx, repo.ListingListQuery{
			Page:     1,
			Limit:    1,
			SellerID: &userID,
			Status:   &available,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if listingCount > 0 {
			return NewHTTPError(http.StatusConflict, "user has available listings")
		}

		//アカウントと一緒にセッションも消す
		if err := r.RefreshTokens().RevokeAllForUser(ctx, userID, u.clock.Now()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Users().Delete(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 管理者向け：ユーザー統計
func (u *UserUsecase) AdminStatistics(ctx context.Context) (UserStatistics, error) {
	var stats UserStatistics
	var err error

	if stats.TotalUsers, err = u.users.Count(ctx); err != nil {
		return UserStatistics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if stats.ActiveUsers, err = u.users.CountByStatus(ctx, model.UserStatusActive); err != nil {
		return UserStatistics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if stats.InactiveUsers, err = u.users.CountByStatus(ctx, model.UserStatusInactive); err != nil {
		return UserStatistics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if stats.Students, err = u.users.CountByRole(ctx, model.RoleStudent); err != nil {
		return UserStatistics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if stats.Admins, err = u.users.CountByRole(ctx, model.RoleAdmin); err != nil {
		return UserStatistics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return stats, nil
}
