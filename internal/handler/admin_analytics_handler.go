package handler

import (
	"net/http"
	"time"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAnalyticsHandler struct {
	uc *usecase.AnalyticsUsecase
}

func NewAdminAnalyticsHandler(uc *usecase.AnalyticsUsecase) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{uc: uc}
}

func (h *AdminAnalyticsHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/admin/analytics/dashboard", h.Dashboard)
	admin.GET("/admin/analytics/users/registrations", h.Registrations)
	admin.GET("/admin/analytics/orders/stats", h.OrderStats)
	admin.GET("/admin/analytics/revenue/stats", h.RevenueStats)
}

// GET /admin/analytics/dashboard
func (h *AdminAnalyticsHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// GET /admin/analytics/users/registrations?from=2025-01-01&to=2025-01-31
func (h *AdminAnalyticsHandler) Registrations(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid date range")
	}

	points, err := h.uc.RegistrationsByDay(c.Request().Context(), from, to)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, points)
}

// GET /admin/analytics/orders/stats
func (h *AdminAnalyticsHandler) OrderStats(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid date range")
	}

	points, err := h.uc.OrdersByDay(c.Request().Context(), from, to)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, points)
}

// GET /admin/analytics/revenue/stats
func (h *AdminAnalyticsHandler) RevenueStats(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid date range")
	}

	points, err := h.uc.RevenueByDay(c.Request().Context(), from, to)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, points)
}

// from/toをYYYY-MM-DDで受ける。toは終日扱い。
func dateRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
