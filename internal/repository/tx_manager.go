package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Users() UserRepository
	Listings() ListingRepository
	Orders() OrderRepository
	Reviews() ReviewRepository
	Comments() CommentRepository
	Categories() CategoryRepository
	AuditLogs() AuditLogRepository
	RefreshTokens() RefreshTokenRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
