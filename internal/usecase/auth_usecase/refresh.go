package auth

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

// 無効・期限切れ・使用済みのリフレッシュトークン
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type RefreshInput struct {
	RefreshToken string
	UserAgent    string
}

type RefreshOutput struct {
	Token TokenPair `json:"token"`
}

// RefreshUsecaseはトークンの更新。使い回し検知のため
// 古いトークンは使用済みにして毎回新しいペアを発行する（ローテーション）。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (RefreshOutput, error) {
	var out RefreshOutput

	if in.RefreshToken == "" {
		return out, ErrInvalidRefreshToken
	}

	stored, err := u.rtRepo.FindByHash(ctx, hashRefreshToken(in.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidRefreshToken
		}
		return out, err
	}

	now := u.clock.Now()

	//使用済み・失効済み・期限切れは全部拒否
	if stored.UsedAt != nil || stored.RevokedAt != nil || now.After(stored.ExpiresAt) {
		return out, ErrInvalidRefreshToken
	}

	user, err := u.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrInvalidRefreshToken
		}
		return out, err
	}
	if user.Status != model.UserStatusActive {
		return out, ErrUserInactive
	}

	//古いトークンを使用済みにしてから新しいペアを出す
	if err := u.rtRepo.MarkUsed(ctx, stored.ID, now); err != nil {
		return out, err
	}

	pair, err := issueTokenPair(ctx, u.rtRepo, u.issuer, u.idGen, user, in.UserAgent, now, u.refreshTTL)
	if err != nil {
		return out, err
	}

	out.Token = pair
	return out, nil
}
