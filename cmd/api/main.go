package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("GO_ENV") != "prod" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Listing{},
		&model.Order{},
		&model.Review{},
		&model.Comment{},
		&model.RefreshToken{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	listingRepo := infraRepo.NewListingGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	commentRepo := infraRepo.NewCommentGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: cfg.AccessTokenTTL}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, rtRepo, hasher, issuer, idGen, clock, cfg.AllowedEmailDomain, cfg.RefreshTokenTTL)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, cfg.RefreshTokenTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, cfg.RefreshTokenTTL)
	logoutUC := auth.NewLogoutUsecase(rtRepo, clock)

	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, listingRepo, clock, cfg.BorrowPeriodDays, log)
	listingUC := usecase.NewListingUsecase(txManager, listingRepo, orderRepo, commentRepo, clock)
	reviewUC := usecase.NewReviewUsecase(txManager, reviewRepo, orderRepo, clock)
	commentUC := usecase.NewCommentUsecase(txManager, commentRepo, listingRepo, clock)
	categoryUC := usecase.NewCategoryUsecase(txManager, categoryRepo, listingRepo)
	userUC := usecase.NewUserUsecase(txManager, userRepo, listingRepo, orderRepo, reviewRepo, clock)
	analyticsUC := usecase.NewAnalyticsUsecase(userRepo, listingRepo, orderRepo, reviewRepo, clock)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:           handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC),
		Listings:       handler.NewListingHandler(listingUC),
		Orders:         handler.NewOrderHandler(orderUC),
		Reviews:        handler.NewReviewHandler(reviewUC),
		Comments:       handler.NewCommentHandler(commentUC),
		Categories:     handler.NewCategoryHandler(categoryUC),
		Users:          handler.NewUserHandler(userUC),
		AdminUsers:     handler.NewAdminUserHandler(userUC),
		AdminAnalytics: handler.NewAdminAnalyticsHandler(analyticsUC),
		AdminAudit:     handler.NewAdminAuditHandler(auditUC),
	}

	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, userRepo, handlers)

	//期限切れ貸出のスイープを定期実行する
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				processed, err := orderUC.ProcessOverdueBorrowOrders(sweepCtx)
				if err != nil {
					log.Error().Err(err).Msg("overdue borrow sweep failed")
					continue
				}
				if processed > 0 {
					log.Info().Int("processed", processed).Msg("overdue borrow sweep done")
				}
			}
		}
	}()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.Start(e, cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	//SIGINT/SIGTERMでグレースフルに落とす
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopSweep()
	if err := server.Shutdown(e); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server shutdown complete")
}
