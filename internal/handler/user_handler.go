package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 公開プロフィールと自分のプロフィール更新。
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users/me", h.Me)
	g.PUT("/users/me", h.UpdateMe)
	g.GET("/users/:id", h.Profile)
}

// GET /users/me
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.uc.AdminGet(c.Request().Context(), userID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// PUT /users/me
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// GET /users/:id（売り手評価つきの公開プロフィール）
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
