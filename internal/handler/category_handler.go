package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(g *echo.Group, admin *echo.Group) {
	g.GET("/categories", h.List)
	g.GET("/categories/paged", h.ListPaged)
	g.GET("/categories/with-counts", h.ListWithCounts)
	g.GET("/categories/search", h.Search)
	g.GET("/categories/:id", h.Get)

	admin.POST("/categories", h.Create)
	admin.PUT("/categories/:id", h.Update)
	admin.DELETE("/categories/:id", h.Delete)
}

// GET /categories
func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GET /categories/paged
func (h *CategoryHandler) ListPaged(c echo.Context) error {
	page, err := h.uc.ListPaged(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /categories/with-counts
func (h *CategoryHandler) ListWithCounts(c echo.Context) error {
	items, err := h.uc.ListWithCounts(c.Request().Context())
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GET /categories/search
func (h *CategoryHandler) Search(c echo.Context) error {
	items, err := h.uc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GET /categories/:id
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	category, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// POST /categories
func (h *CategoryHandler) Create(c echo.Context) error {
	var req usecase.CategoryInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	created, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// PUT /categories/:id
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.CategoryInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.Update(c.Request().Context(), id, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /categories/:id
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
