package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

// GORMのTransactionに委譲する実装。
// fnがerrorを返せばrollback、nilならcommit。
type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (m *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepos{tx: tx})
	})
}

// Tx接続でリポジトリを組み直す。
type txRepos struct {
	tx *gorm.DB
}

func (r *txRepos) Users() repo.UserRepository          { return NewUserGormRepository(r.tx) }
func (r *txRepos) Listings() repo.ListingRepository    { return NewListingGormRepository(r.tx) }
func (r *txRepos) Orders() repo.OrderRepository        { return NewOrderGormRepository(r.tx) }
func (r *txRepos) Reviews() repo.ReviewRepository      { return NewReviewGormRepository(r.tx) }
func (r *txRepos) Comments() repo.CommentRepository    { return NewCommentGormRepository(r.tx) }
func (r *txRepos) Categories() repo.CategoryRepository { return NewCategoryGormRepository(r.tx) }
func (r *txRepos) AuditLogs() repo.AuditLogRepository  { return NewAuditLogGormRepository(r.tx) }

func (r *txRepos) RefreshTokens() repo.RefreshTokenRepository {
	return NewRefreshTokenGormRepository(r.tx)
}
