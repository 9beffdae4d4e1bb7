package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Error: msg})
}

// usecaseのエラーをHTTPへ変換。想定外は500。
func writeUsecaseError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return writeError(c, he.Status, he.Message)
	}
	return writeError(c, http.StatusInternalServerError, "internal error")
}

// AuthJWTがcontextに入れたuser_idを取り出す
func getUserID(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	return id, ok && id > 0
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
