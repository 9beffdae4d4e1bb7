package middleware

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンが有効でも停止済みユーザーはリクエストごとに弾く。
func ActiveUserGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_idを取得する
			rawUserID := c.Get(CtxUserIDKey)
			userID, ok := rawUserID.(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//停止中は403
			if user.Status != model.UserStatusActive {
				return c.JSON(http.StatusForbidden, errorJSON("account is inactive"))
			}

			return next(c)
		}
	}
}
