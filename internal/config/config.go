package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // 指定があればDSNとして最優先で使う

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable/require

	JWTSecret       string        // JWT署名シークレット
	AccessTokenTTL  time.Duration // アクセストークン有効期間
	RefreshTokenTTL time.Duration // リフレッシュトークン有効期間

	AllowedEmailDomain string        // 登録を許可するメールドメイン
	BorrowPeriodDays   int           // 貸出の返却期限（日数）
	SweepInterval      time.Duration // 返却期限切れスイープの間隔

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数から設定を組み立てる。
// DATABASE_URLがあればPostgres個別項目は任意。
func Load() (Config, error) {
	cfg := Config{
		Port: getenvDefault("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getenvDefault("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenvDefault("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AllowedEmailDomain: getenvDefault("ALLOWED_EMAIL_DOMAIN", "vinuni.edu.vn"),

		GoEnv: getenvDefault("GO_ENV", "dev"),
		FEURL: os.Getenv("FE_URL"),
	}

	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cfg.PostgresPort = pgPort

	borrowDays, err := atoiDefault("BORROW_PERIOD_DAYS", 7)
	if err != nil {
		return Config{}, err
	}
	if borrowDays <= 0 {
		return Config{}, fmt.Errorf("BORROW_PERIOD_DAYS must be positive")
	}
	cfg.BorrowPeriodDays = borrowDays

	accessMin, err := atoiDefault("ACCESS_TOKEN_TTL_MINUTES", 15)
	if err != nil {
		return Config{}, err
	}
	cfg.AccessTokenTTL = time.Duration(accessMin) * time.Minute

	refreshHours, err := atoiDefault("REFRESH_TOKEN_TTL_HOURS", 24*14)
	if err != nil {
		return Config{}, err
	}
	cfg.RefreshTokenTTL = time.Duration(refreshHours) * time.Hour

	sweepMin, err := atoiDefault("SWEEP_INTERVAL_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.SweepInterval = time.Duration(sweepMin) * time.Minute

	//必須チェック
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenvDefault(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
