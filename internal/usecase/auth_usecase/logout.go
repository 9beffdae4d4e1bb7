package auth

import (
	"context"
	"errors"

	"app/internal/repository"
)

type LogoutInput struct {
	RefreshToken string
}

// LogoutUsecaseはリフレッシュトークンの失効。
// トークンが見つからなくても成功扱いにする（多重ログアウト対策）。
type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
	clock  Clock
}

func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo, clock: clock}
}

func (u *LogoutUsecase) Execute(ctx context.Context, in LogoutInput) error {
	if in.RefreshToken == "" {
		return nil
	}

	stored, err := u.rtRepo.FindByHash(ctx, hashRefreshToken(in.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if stored.RevokedAt != nil {
		return nil
	}

	return u.rtRepo.Revoke(ctx, stored.ID, u.clock.Now())
}
