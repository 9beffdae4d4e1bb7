package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// mocks / stubs
// =====================

type AuthUserRepoMock struct{ mock.Mock }

func (m *AuthUserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *AuthUserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *AuthUserRepoMock) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) Search(ctx context.Context, q string, page int, limit int) ([]model.User, int64, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *AuthUserRepoMock) UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) UpdateProfile(ctx context.Context, userID int64, fullName string, phone string, address string) error {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) Delete(ctx context.Context, userID int64) error {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) Count(ctx context.Context) (int64, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) CountByStatus(ctx context.Context, status model.UserStatus) (int64, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) CountRegistrationsByDay(ctx context.Context, from time.Time, to time.Time) ([]repository.DayCount, error) {
	panic("not used in auth tests")
}

func (m *AuthUserRepoMock) ListRecent(ctx context.Context, limit int) ([]model.User, error) {
	panic("not used in auth tests")
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	t, _ := args.Get(0).(model.RefreshToken)
	return t, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) RevokeAllForUser(ctx context.Context, userID int64, revokedAt time.Time) error {
	panic("not used in auth tests")
}

type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type stubVerifier struct{ ok bool }

func (v stubVerifier) Verify(plain string, hashed string) bool { return v.ok }

type stubIssuer struct{}

func (stubIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "access-token", now.Add(15 * time.Minute), nil
}

type stubIDGen struct{}

func (stubIDGen) NewID() string { return "rt-1" }

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// =====================
// Register
// =====================

func newRegisterUsecase(users *AuthUserRepoMock, tokens *RefreshTokenRepoMock) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(
		users, tokens, stubHasher{}, stubIssuer{}, stubIDGen{}, stubClock{now: testNow},
		"vinuni.edu.vn", 336*time.Hour,
	)
}

func TestRegister_Success(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := newRegisterUsecase(users, tokens)

	users.On("ExistsByEmail", mock.Anything, "an.nguyen@vinuni.edu.vn").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "an.nguyen@vinuni.edu.vn" &&
			u.Role == model.RoleStudent &&
			u.Status == model.UserStatusActive &&
			u.PasswordHash == "hashed:secret-pass"
	})).Return(nil)
	tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		//ハッシュだけ保存し、有効期限はTTL分先
		return rt.ID == "rt-1" && rt.UserID == 1 &&
			rt.TokenHash != "" && rt.ExpiresAt.Equal(testNow.Add(336*time.Hour))
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		FullName: "An Nguyen",
		Email:    "  An.Nguyen@VinUni.edu.vn ",
		Password: "secret-pass",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.User.ID)
	assert.Equal(t, "access-token", out.Token.AccessToken)
	assert.NotEmpty(t, out.Token.RefreshToken)
	assert.Equal(t, int(15*time.Minute/time.Second), out.Token.ExpiresIn)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestRegister_EmailDomainNotAllowed(t *testing.T) {
	uc := newRegisterUsecase(new(AuthUserRepoMock), new(RefreshTokenRepoMock))

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		FullName: "An Nguyen",
		Email:    "an.nguyen@gmail.com",
		Password: "secret-pass",
	})

	assert.ErrorIs(t, err, auth.ErrEmailDomainNotAllowed)
}

func TestRegister_InvalidInput(t *testing.T) {
	uc := newRegisterUsecase(new(AuthUserRepoMock), new(RefreshTokenRepoMock))

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		FullName: "", Email: "a@vinuni.edu.vn", Password: "secret-pass",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidFullName)

	_, err = uc.Execute(context.Background(), auth.RegisterUserInput{
		FullName: "An", Email: "not-an-email", Password: "secret-pass",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)

	_, err = uc.Execute(context.Background(), auth.RegisterUserInput{
		FullName: "An", Email: "a@vinuni.edu.vn", Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	users := new(AuthUserRepoMock)
	uc := newRegisterUsecase(users, new(RefreshTokenRepoMock))

	users.On("ExistsByEmail", mock.Anything, "an.nguyen@vinuni.edu.vn").Return(true, nil)

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		FullName: "An Nguyen",
		Email:    "an.nguyen@vinuni.edu.vn",
		Password: "secret-pass",
	})

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Login
// =====================

func activeUser() model.User {
	return model.User{
		ID:           1,
		FullName:     "An Nguyen",
		Email:        "an.nguyen@vinuni.edu.vn",
		PasswordHash: "hashed:secret-pass",
		Role:         model.RoleStudent,
		Status:       model.UserStatusActive,
	}
}

func TestLogin_Success(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := auth.NewLoginUsecase(users, tokens, stubVerifier{ok: true}, stubIssuer{}, stubIDGen{}, stubClock{now: testNow}, 336*time.Hour)

	users.On("FindByEmail", mock.Anything, "an.nguyen@vinuni.edu.vn").Return(activeUser(), nil)
	users.On("UpdateLastLogin", mock.Anything, int64(1), testNow).Return(nil)
	tokens.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "An.Nguyen@vinuni.edu.vn",
		Password: "secret-pass",
	})

	assert.NoError(t, err)
	assert.Equal(t, "access-token", out.Token.AccessToken)
	assert.NotEmpty(t, out.Token.RefreshToken)
	if assert.NotNil(t, out.User.LastLoginAt) {
		assert.True(t, out.User.LastLoginAt.Equal(testNow))
	}
	users.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := auth.NewLoginUsecase(users, tokens, stubVerifier{ok: false}, stubIssuer{}, stubIDGen{}, stubClock{now: testNow}, 336*time.Hour)

	users.On("FindByEmail", mock.Anything, "an.nguyen@vinuni.edu.vn").Return(activeUser(), nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "an.nguyen@vinuni.edu.vn", Password: "nope"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(AuthUserRepoMock)
	uc := auth.NewLoginUsecase(users, new(RefreshTokenRepoMock), stubVerifier{ok: true}, stubIssuer{}, stubIDGen{}, stubClock{now: testNow}, 336*time.Hour)

	users.On("FindByEmail", mock.Anything, "ghost@vinuni.edu.vn").Return(model.User{}, repository.ErrUserNotFound)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "ghost@vinuni.edu.vn", Password: "x"})

	//存在しないメールでも同じエラーを返す
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	users := new(AuthUserRepoMock)
	uc := auth.NewLoginUsecase(users, new(RefreshTokenRepoMock), stubVerifier{ok: true}, stubIssuer{}, stubIDGen{}, stubClock{now: testNow}, 336*time.Hour)

	user := activeUser()
	user.Status = model.UserStatusInactive
	users.On("FindByEmail", mock.Anything, "an.nguyen@vinuni.edu.vn").Return(user, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "an.nguyen@vinuni.edu.vn", Password: "secret-pass"})

	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

// =====================
// Refresh
// =====================

func newRefreshUsecase(users *AuthUserRepoMock, tokens *RefreshTokenRepoMock) *auth.RefreshUsecase {
	return auth.NewRefreshUsecase(users, tokens, stubIssuer{}, stubIDGen{}, stubClock{now: testNow}, 336*time.Hour)
}

func validStoredToken() model.RefreshToken {
	return model.RefreshToken{
		ID:        "rt-old",
		UserID:    1,
		TokenHash: sha256Hex("plain-refresh"),
		ExpiresAt: testNow.Add(100 * time.Hour),
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := newRefreshUsecase(users, tokens)

	tokens.On("FindByHash", mock.Anything, sha256Hex("plain-refresh")).Return(validStoredToken(), nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(activeUser(), nil)
	tokens.On("MarkUsed", mock.Anything, "rt-old", testNow).Return(nil)
	tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.ID == "rt-1" && rt.TokenHash != sha256Hex("plain-refresh")
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: "plain-refresh"})

	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token.RefreshToken)
	assert.NotEqual(t, "plain-refresh", out.Token.RefreshToken)
	tokens.AssertExpectations(t)
}

func TestRefresh_RejectsUsedToken(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := newRefreshUsecase(users, tokens)

	used := validStoredToken()
	usedAt := testNow.Add(-time.Hour)
	used.UsedAt = &usedAt

	tokens.On("FindByHash", mock.Anything, sha256Hex("plain-refresh")).Return(used, nil)

	_, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: "plain-refresh"})

	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	tokens.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_RejectsExpiredToken(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := newRefreshUsecase(users, tokens)

	expired := validStoredToken()
	expired.ExpiresAt = testNow.Add(-time.Minute)

	tokens.On("FindByHash", mock.Anything, sha256Hex("plain-refresh")).Return(expired, nil)

	_, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: "plain-refresh"})

	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_RejectsUnknownToken(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := newRefreshUsecase(users, tokens)

	tokens.On("FindByHash", mock.Anything, mock.Anything).Return(model.RefreshToken{}, repository.ErrNotFound)

	_, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: "forged"})

	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_InactiveUser(t *testing.T) {
	users := new(AuthUserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	uc := newRefreshUsecase(users, tokens)

	inactive := activeUser()
	inactive.Status = model.UserStatusInactive

	tokens.On("FindByHash", mock.Anything, sha256Hex("plain-refresh")).Return(validStoredToken(), nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(inactive, nil)

	_, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: "plain-refresh"})

	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

// =====================
// Logout
// =====================

func TestLogout_RevokesToken(t *testing.T) {
	tokens := new(RefreshTokenRepoMock)
	uc := auth.NewLogoutUsecase(tokens, stubClock{now: testNow})

	tokens.On("FindByHash", mock.Anything, sha256Hex("plain-refresh")).Return(validStoredToken(), nil)
	tokens.On("Revoke", mock.Anything, "rt-old", testNow).Return(nil)

	err := uc.Execute(context.Background(), auth.LogoutInput{RefreshToken: "plain-refresh"})

	assert.NoError(t, err)
	tokens.AssertExpectations(t)
}

// 多重ログアウトや未知トークンでも成功扱い
func TestLogout_Idempotent(t *testing.T) {
	tokens := new(RefreshTokenRepoMock)
	uc := auth.NewLogoutUsecase(tokens, stubClock{now: testNow})

	revoked := validStoredToken()
	revokedAt := testNow.Add(-time.Hour)
	revoked.RevokedAt = &revokedAt

	tokens.On("FindByHash", mock.Anything, sha256Hex("plain-refresh")).Return(revoked, nil)
	assert.NoError(t, uc.Execute(context.Background(), auth.LogoutInput{RefreshToken: "plain-refresh"}))

	tokens2 := new(RefreshTokenRepoMock)
	uc2 := auth.NewLogoutUsecase(tokens2, stubClock{now: testNow})
	tokens2.On("FindByHash", mock.Anything, mock.Anything).Return(model.RefreshToken{}, repository.ErrNotFound)
	assert.NoError(t, uc2.Execute(context.Background(), auth.LogoutInput{RefreshToken: "unknown"}))

	assert.NoError(t, uc2.Execute(context.Background(), auth.LogoutInput{RefreshToken: ""}))
	tokens2.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
