package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAuditHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAdminAuditHandler(uc *usecase.AuditLogUsecase) *AdminAuditHandler {
	return &AdminAuditHandler{uc: uc}
}

func (h *AdminAuditHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/admin/audit-logs", h.List)
}

// GET /admin/audit-logs?actor_id=&action=&resource_type=&from=&to=&limit=
func (h *AdminAuditHandler) List(c echo.Context) error {
	q := usecase.AuditLogQuery{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		Limit:        queryInt(c, "limit"),
	}

	if v := c.QueryParam("actor_id"); v != "" {
		actorID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "invalid actor_id")
		}
		q.ActorID = actorID
	}

	if v := c.QueryParam("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "invalid from")
		}
		q.From = &from
	}
	if v := c.QueryParam("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "invalid to")
		}
		//終日扱い
		end := to.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}

	items, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
