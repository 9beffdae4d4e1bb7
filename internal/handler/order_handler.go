package handler

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, admin *echo.Group) {
	g.POST("/orders", h.Create)
	g.GET("/orders/my-orders", h.MyOrders)
	g.GET("/orders/sales", h.Sales)
	g.GET("/orders/:id", h.Get)
	g.PUT("/orders/:id/confirm", h.Confirm)
	g.PUT("/orders/:id/reject", h.Reject)
	g.PUT("/orders/:id/cancel", h.Cancel)
	g.PUT("/orders/:id/complete", h.Complete)

	admin.POST("/orders/process-overdue", h.ProcessOverdue)
}

// POST /orders
func (h *OrderHandler) Create(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	order, err := h.uc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GET /orders/:id
func (h *OrderHandler) Get(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	order, err := h.uc.GetByID(c.Request().Context(), id, userID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GET /orders/my-orders
func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GET /orders/sales
func (h *OrderHandler) Sales(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.uc.ListSales(c.Request().Context(), userID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// PUT /orders/:id/confirm
func (h *OrderHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.uc.Confirm)
}

// PUT /orders/:id/reject
func (h *OrderHandler) Reject(c echo.Context) error {
	return h.transition(c, h.uc.Reject)
}

// PUT /orders/:id/cancel
func (h *OrderHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.uc.Cancel)
}

// PUT /orders/:id/complete
func (h *OrderHandler) Complete(c echo.Context) error {
	return h.transition(c, h.uc.Complete)
}

// POST /orders/process-overdue
func (h *OrderHandler) ProcessOverdue(c echo.Context) error {
	processed, err := h.uc.ProcessOverdueBorrowOrders(c.Request().Context())
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"processed": processed})
}

// 遷移系は（orderID, userID）の形が同じなのでまとめる
func (h *OrderHandler) transition(
	c echo.Context,
	fn func(ctx context.Context, orderID int64, userID int64) (model.Order, error),
) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	order, err := fn(c.Request().Context(), id, userID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
