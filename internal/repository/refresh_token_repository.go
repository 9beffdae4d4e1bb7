package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	//ハッシュで1件取得（平文では引かない）
	FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	Revoke(ctx context.Context, id string, revokedAt time.Time) error
	RevokeAllForUser(ctx context.Context, userID int64, revokedAt time.Time) error
}
