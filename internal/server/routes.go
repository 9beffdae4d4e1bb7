package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// ハンドラ一式。mainで組み立てて渡す。
type Handlers struct {
	Auth           *handler.AuthHandler
	Listings       *handler.ListingHandler
	Orders         *handler.OrderHandler
	Reviews        *handler.ReviewHandler
	Comments       *handler.CommentHandler
	Categories     *handler.CategoryHandler
	Users          *handler.UserHandler
	AdminUsers     *handler.AdminUserHandler
	AdminAnalytics *handler.AdminAnalyticsHandler
	AdminAudit     *handler.AdminAuditHandler
}

// /api配下にルートを張る。
// authグループ＝JWT必須＋停止ユーザー拒否、adminグループ＝さらにADMINのみ。
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	//認証不要
	h.Auth.RegisterRoutes(api)

	//認証必須
	authed := api.Group("", middleware.AuthJWT(cfg), middleware.ActiveUserGuard(userRepo))

	//管理者のみ
	admin := api.Group("", middleware.AuthJWT(cfg), middleware.ActiveUserGuard(userRepo), middleware.AdminRoleGuard())

	h.Listings.RegisterRoutes(authed, admin)
	h.Orders.RegisterRoutes(authed, admin)
	h.Reviews.RegisterRoutes(authed)
	h.Comments.RegisterRoutes(authed, admin)
	h.Categories.RegisterRoutes(authed, admin)
	h.Users.RegisterRoutes(authed)
	h.AdminUsers.RegisterRoutes(admin)
	h.AdminAnalytics.RegisterRoutes(admin)
	h.AdminAudit.RegisterRoutes(admin)
}
