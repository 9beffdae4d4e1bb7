package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	uc *usecase.UserUsecase
}

func NewAdminUserHandler(uc *usecase.UserUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

func (h *AdminUserHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/admin/users", h.List)
	admin.GET("/admin/users/search", h.Search)
	admin.GET("/admin/users/statistics", h.Statistics)
	admin.GET("/admin/users/active", h.ListActive)
	admin.GET("/admin/users/:id", h.Get)
	admin.PUT("/admin/users/:id/status", h.UpdateStatus)
	admin.PUT("/admin/users/:id/role", h.UpdateRole)
	admin.DELETE("/admin/users/:id", h.Delete)
}

// GET /admin/users
func (h *AdminUserHandler) List(c echo.Context) error {
	page, err := h.uc.AdminList(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /admin/users/search
func (h *AdminUserHandler) Search(c echo.Context) error {
	page, err := h.uc.AdminSearch(c.Request().Context(), c.QueryParam("q"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /admin/users/statistics
func (h *AdminUserHandler) Statistics(c echo.Context) error {
	stats, err := h.uc.AdminStatistics(c.Request().Context())
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /admin/users/active
func (h *AdminUserHandler) ListActive(c echo.Context) error {
	items, err := h.uc.AdminListActive(c.Request().Context())
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GET /admin/users/:id
func (h *AdminUserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	user, err := h.uc.AdminGet(c.Request().Context(), id)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type updateUserStatusRequest struct {
	Status string `json:"status"`
}

// PUT /admin/users/:id/status
func (h *AdminUserHandler) UpdateStatus(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req updateUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.AdminUpdateStatus(c.Request().Context(), actorID, id, req.Status)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

type updateUserRoleRequest struct {
	Role string `json:"role"`
}

// PUT /admin/users/:id/role
func (h *AdminUserHandler) UpdateRole(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req updateUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.AdminUpdateRole(c.Request().Context(), actorID, id, req.Role)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /admin/users/:id
func (h *AdminUserHandler) Delete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.AdminDelete(c.Request().Context(), actorID, id); err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
