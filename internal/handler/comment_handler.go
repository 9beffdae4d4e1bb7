package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	uc *usecase.CommentUsecase
}

func NewCommentHandler(uc *usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

func (h *CommentHandler) RegisterRoutes(g *echo.Group, admin *echo.Group) {
	g.GET("/comments/listings/:listingId", h.ListThreaded)
	g.GET("/comments/listings/:listingId/top-level", h.ListTopLevel)
	g.GET("/comments/listings/:listingId/count", h.Count)
	g.GET("/comments/:parentId/replies", h.ListReplies)
	g.POST("/comments/listings/:listingId", h.Create)
	g.PUT("/comments/:id", h.Update)
	g.DELETE("/comments/:id", h.Delete)

	admin.GET("/comments/admin/all", h.AdminList)
	admin.DELETE("/comments/admin/bulk", h.AdminBulkDelete)
	admin.DELETE("/comments/admin/:id", h.AdminDelete)
}

// GET /comments/listings/:listingId
func (h *CommentHandler) ListThreaded(c echo.Context) error {
	listingID, err := pathID(c, "listingId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	threads, err := h.uc.ListThreaded(c.Request().Context(), listingID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, threads)
}

// GET /comments/listings/:listingId/top-level
func (h *CommentHandler) ListTopLevel(c echo.Context) error {
	listingID, err := pathID(c, "listingId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	page, err := h.uc.ListTopLevel(c.Request().Context(), listingID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /comments/listings/:listingId/count
func (h *CommentHandler) Count(c echo.Context) error {
	listingID, err := pathID(c, "listingId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	count, err := h.uc.CountByListing(c.Request().Context(), listingID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

// GET /comments/:parentId/replies
func (h *CommentHandler) ListReplies(c echo.Context) error {
	parentID, err := pathID(c, "parentId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	replies, err := h.uc.ListReplies(c.Request().Context(), parentID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, replies)
}

// POST /comments/listings/:listingId
func (h *CommentHandler) Create(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	listingID, err := pathID(c, "listingId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.CreateCommentInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	created, err := h.uc.Create(c.Request().Context(), userID, listingID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// PUT /comments/:id
func (h *CommentHandler) Update(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.UpdateCommentInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.Update(c.Request().Context(), id, userID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /comments/:id
func (h *CommentHandler) Delete(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	if err := h.uc.Delete(c.Request().Context(), id, userID); err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

// GET /comments/admin/all
func (h *CommentHandler) AdminList(c echo.Context) error {
	page, err := h.uc.AdminList(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// DELETE /comments/admin/:id
func (h *CommentHandler) AdminDelete(c echo.Context) error {
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

type bulkDeleteRequest struct {
	CommentIDs []int64 `json:"comment_ids"`
}

// DELETE /comments/admin/bulk
func (h *CommentHandler) AdminBulkDelete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	deleted, err := h.uc.AdminBulkDelete(c.Request().Context(), actorID, req.CommentIDs)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"deleted": deleted})
}
