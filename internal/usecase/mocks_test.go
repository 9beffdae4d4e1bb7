package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// 共通ヘルパ
// =====================

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), substr),
			"error %q should contain %q", err.Error(), substr)
	}
}

// テストでは時間を固定する
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	users         repo.UserRepository
	listings      repo.ListingRepository
	orders        repo.OrderRepository
	reviews       repo.ReviewRepository
	comments      repo.CommentRepository
	categories    repo.CategoryRepository
	auditLogs     repo.AuditLogRepository
	refreshTokens repo.RefreshTokenRepository
}

func (r *TxReposMock) Users() repo.UserRepository                 { return r.users }
func (r *TxReposMock) Listings() repo.ListingRepository           { return r.listings }
func (r *TxReposMock) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposMock) Reviews() repo.ReviewRepository             { return r.reviews }
func (r *TxReposMock) Comments() repo.CommentRepository           { return r.comments }
func (r *TxReposMock) Categories() repo.CategoryRepository        { return r.categories }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository         { return r.auditLogs }
func (r *TxReposMock) RefreshTokens() repo.RefreshTokenRepository { return r.refreshTokens }

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	panic("not used")
}

func (m *UserRepoMock) Search(ctx context.Context, q string, page int, limit int) ([]model.User, int64, error) {
	panic("not used")
}

func (m *UserRepoMock) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	panic("not used")
}

func (m *UserRepoMock) UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, userID int64, fullName string, phone string, address string) error {
	args := m.Called(ctx, userID, fullName, phone, address)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	panic("not used")
}

func (m *UserRepoMock) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) Count(ctx context.Context) (int64, error) { panic("not used") }

func (m *UserRepoMock) CountByStatus(ctx context.Context, status model.UserStatus) (int64, error) {
	panic("not used")
}

func (m *UserRepoMock) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	panic("not used")
}

func (m *UserRepoMock) CountRegistrationsByDay(ctx context.Context, from time.Time, to time.Time) ([]repo.DayCount, error) {
	panic("not used")
}

func (m *UserRepoMock) ListRecent(ctx context.Context, limit int) ([]model.User, error) {
	panic("not used")
}

type ListingRepoMock struct{ mock.Mock }

func (m *ListingRepoMock) FindByID(ctx context.Context, listingID int64) (model.Listing, error) {
	args := m.Called(ctx, listingID)
	l, _ := args.Get(0).(model.Listing)
	return l, args.Error(1)
}

func (m *ListingRepoMock) List(ctx context.Context, q repo.ListingListQuery) ([]model.Listing, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Listing)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ListingRepoMock) Create(ctx context.Context, listing model.Listing) (model.Listing, error) {
	args := m.Called(ctx, listing)
	created, _ := args.Get(0).(model.Listing)
	return created, args.Error(1)
}

func (m *ListingRepoMock) Update(ctx context.Context, listing model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *ListingRepoMock) UpdateStatus(ctx context.Context, listingID int64, status model.ListingStatus) error {
	args := m.Called(ctx, listingID, status)
	return args.Error(0)
}

func (m *ListingRepoMock) Delete(ctx context.Context, listingID int64) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *ListingRepoMock) Count(ctx context.Context) (int64, error) { panic("not used") }

func (m *ListingRepoMock) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ListingRepoMock) ListRecent(ctx context.Context, limit int) ([]model.Listing, error) {
	panic("not used")
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) Save(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	args := m.Called(ctx, buyerID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) ListActiveByListing(ctx context.Context, listingID int64) ([]model.Order, error) {
	args := m.Called(ctx, listingID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) CountActiveByListing(ctx context.Context, listingID int64) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountActiveByBuyer(ctx context.Context, buyerID int64) (int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ListAutoCompletableBorrow(ctx context.Context, now time.Time) ([]model.Order, error) {
	args := m.Called(ctx, now)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) Count(ctx context.Context) (int64, error) { panic("not used") }

func (m *OrderRepoMock) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	panic("not used")
}

func (m *OrderRepoMock) SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error) {
	panic("not used")
}

func (m *OrderRepoMock) SumCompletedRevenueBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error) {
	panic("not used")
}

func (m *OrderRepoMock) AvgCompletedOrderValue(ctx context.Context) (decimal.Decimal, error) {
	panic("not used")
}

func (m *OrderRepoMock) TopSellers(ctx context.Context, limit int) ([]repo.TopSellerRow, error) {
	panic("not used")
}

func (m *OrderRepoMock) CountOrdersByDay(ctx context.Context, from time.Time, to time.Time) ([]repo.DayCount, error) {
	panic("not used")
}

func (m *OrderRepoMock) SumRevenueByDay(ctx context.Context, from time.Time, to time.Time) ([]repo.DayAmount, error) {
	panic("not used")
}

func (m *OrderRepoMock) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	panic("not used")
}

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) Create(ctx context.Context, review model.Review) (model.Review, error) {
	args := m.Called(ctx, review)
	created, _ := args.Get(0).(model.Review)
	return created, args.Error(1)
}

func (m *ReviewRepoMock) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	args := m.Called(ctx, reviewID)
	rv, _ := args.Get(0).(model.Review)
	return rv, args.Error(1)
}

func (m *ReviewRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Review, error) {
	args := m.Called(ctx, orderID)
	rv, _ := args.Get(0).(model.Review)
	return rv, args.Error(1)
}

func (m *ReviewRepoMock) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) ListByListing(ctx context.Context, listingID int64, page int, limit int) ([]model.Review, int64, error) {
	panic("not used")
}

func (m *ReviewRepoMock) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Review, error) {
	panic("not used")
}

func (m *ReviewRepoMock) ListBySeller(ctx context.Context, sellerID int64) ([]model.Review, error) {
	panic("not used")
}

func (m *ReviewRepoMock) AverageRatingByListing(ctx context.Context, listingID int64) (float64, error) {
	panic("not used")
}

func (m *ReviewRepoMock) AverageRatingBySeller(ctx context.Context, sellerID int64) (float64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *ReviewRepoMock) AverageRatingOverall(ctx context.Context) (float64, error) {
	panic("not used")
}

func (m *ReviewRepoMock) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	panic("not used")
}

func (m *ReviewRepoMock) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReviewRepoMock) Update(ctx context.Context, review model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepoMock) Delete(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

type CommentRepoMock struct{ mock.Mock }

func (m *CommentRepoMock) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	args := m.Called(ctx, comment)
	created, _ := args.Get(0).(model.Comment)
	return created, args.Error(1)
}

func (m *CommentRepoMock) FindByID(ctx context.Context, commentID int64) (model.Comment, error) {
	args := m.Called(ctx, commentID)
	c, _ := args.Get(0).(model.Comment)
	return c, args.Error(1)
}

func (m *CommentRepoMock) ListTopLevelByListing(ctx context.Context, listingID int64) ([]model.Comment, error) {
	args := m.Called(ctx, listingID)
	items, _ := args.Get(0).([]model.Comment)
	return items, args.Error(1)
}

func (m *CommentRepoMock) ListTopLevelByListingPaged(ctx context.Context, listingID int64, page int, limit int) ([]model.Comment, int64, error) {
	panic("not used")
}

func (m *CommentRepoMock) ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	args := m.Called(ctx, parentID)
	items, _ := args.Get(0).([]model.Comment)
	return items, args.Error(1)
}

func (m *CommentRepoMock) CountReplies(ctx context.Context, parentID int64) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CommentRepoMock) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CommentRepoMock) ListAll(ctx context.Context, page int, limit int) ([]model.Comment, int64, error) {
	panic("not used")
}

func (m *CommentRepoMock) Update(ctx context.Context, comment model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepoMock) Delete(ctx context.Context, commentID int64) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

func (m *CommentRepoMock) DeleteByParent(ctx context.Context, parentID int64) error {
	args := m.Called(ctx, parentID)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) ListAll(ctx context.Context) ([]model.Category, error) {
	panic("not used")
}

func (m *CategoryRepoMock) ListPaged(ctx context.Context, page int, limit int) ([]model.Category, int64, error) {
	panic("not used")
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, categoryID int64) (model.Category, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Search(ctx context.Context, q string) ([]model.Category, error) {
	panic("not used")
}

func (m *CategoryRepoMock) Create(ctx context.Context, category model.Category) (model.Category, error) {
	args := m.Called(ctx, category)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, category model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, categoryID int64) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	panic("not used")
}

func (m *RefreshTokenRepoMock) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	panic("not used")
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	panic("not used")
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	panic("not used")
}

func (m *RefreshTokenRepoMock) RevokeAllForUser(ctx context.Context, userID int64, revokedAt time.Time) error {
	args := m.Called(ctx, userID, revokedAt)
	return args.Error(0)
}
