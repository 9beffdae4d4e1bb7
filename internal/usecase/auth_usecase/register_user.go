package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	FullName  string
	Email     string
	Password  string
	Phone     string
	Address   string
	UserAgent string
}

// 会員登録の出力。登録と同時にログイン状態にする。
type RegisterUserOutput struct {
	User  model.User `json:"user"`
	Token TokenPair  `json:"token"`
}

var (
	// 入力が不正
	ErrInvalidEmailFormat    = errors.New("invalid email format")
	ErrEmailDomainNotAllowed = errors.New("email domain not allowed")
	ErrInvalidFullName       = errors.New("invalid full name")
	ErrPasswordTooShort      = errors.New("password too short")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo      repository.UserRepository
	rtRepo        repository.RefreshTokenRepository
	hasher        PasswordHasher
	issuer        AccessTokenIssuer
	idGen         IDGenerator
	clock         Clock
	allowedDomain string
	refreshTTL    time.Duration
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	allowedDomain string,
	refreshTTL time.Duration,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:      userRepo,
		rtRepo:        rtRepo,
		hasher:        hasher,
		issuer:        issuer,
		idGen:         idGen,
		clock:         clock,
		allowedDomain: strings.ToLower(allowedDomain),
		refreshTTL:    refreshTTL,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" || len(fullName) > 100 {
		return out, ErrInvalidFullName
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}

	//大学ドメイン以外は登録不可
	if !strings.HasSuffix(email, "@"+u.allowedDomain) {
		return out, ErrEmailDomainNotAllowed
	}

	if len(in.Password) < 8 {
		return out, ErrPasswordTooShort
	}

	//email重複チェック
	exists, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return out, err
	}
	if exists {
		return out, ErrEmailAlreadyExists
	}

	//パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         model.RoleStudent, // 初期はSTUDENT
		Status:       model.UserStatusActive,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return out, err
	}

	//登録と同時にトークンを発行する
	now := u.clock.Now()
	pair, err := issueTokenPair(ctx, u.rtRepo, u.issuer, u.idGen, *user, in.UserAgent, now, u.refreshTTL)
	if err != nil {
		return out, err
	}

	out.User = *user
	out.Token = pair
	return out, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
