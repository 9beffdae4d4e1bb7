package handler

import (
	"net/http"
	"strings"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ListingHandler struct {
	uc *usecase.ListingUsecase
}

func NewListingHandler(uc *usecase.ListingUsecase) *ListingHandler {
	return &ListingHandler{uc: uc}
}

// 認証必須グループに登録する。公開扱いのGETも認証の内側
// （ActiveUserGuardで停止ユーザーを全面的に締め出すため）。
func (h *ListingHandler) RegisterRoutes(g *echo.Group, admin *echo.Group) {
	g.GET("/listings", h.Browse)
	g.GET("/listings/search", h.Search)
	g.GET("/listings/filter", h.Filter)
	g.GET("/listings/recent", h.Recent)
	g.GET("/listings/my-listings", h.MyListings)
	g.GET("/listings/category/:categoryId", h.ByCategory)
	g.GET("/listings/:id", h.Get)
	g.POST("/listings", h.Create)
	g.PUT("/listings/:id", h.Update)
	g.DELETE("/listings/:id", h.Delete)

	admin.GET("/listings/admin/all", h.AdminList)
	admin.GET("/listings/admin/user/:userId", h.AdminUserListings)
	admin.PUT("/listings/admin/:id/status", h.AdminOverrideStatus)
	admin.DELETE("/listings/admin/:id", h.AdminDelete)
}

// クエリパラメータを共通の検索入力に落とす
func browseInput(c echo.Context) (usecase.BrowseListingsInput, error) {
	in := usecase.BrowseListingsInput{
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
		Q:           c.QueryParam("q"),
		Condition:   c.QueryParam("condition"),
		ListingType: c.QueryParam("listing_type"),
		Sort:        c.QueryParam("sort"),
	}
	in.CategoryID = int64(queryInt(c, "category_id"))

	if raw := strings.TrimSpace(c.QueryParam("min_price")); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return in, err
		}
		in.MinPrice = &p
	}
	if raw := strings.TrimSpace(c.QueryParam("max_price")); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return in, err
		}
		in.MaxPrice = &p
	}

	return in, nil
}

// GET /listings
func (h *ListingHandler) Browse(c echo.Context) error {
	in, err := browseInput(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	page, err := h.uc.Browse(c.Request().Context(), in)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /listings/search（qだけを使う別名）
func (h *ListingHandler) Search(c echo.Context) error {
	return h.Browse(c)
}

// GET /listings/filter（条件つきの別名）
func (h *ListingHandler) Filter(c echo.Context) error {
	return h.Browse(c)
}

// GET /listings/recent
func (h *ListingHandler) Recent(c echo.Context) error {
	page, err := h.uc.Recent(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /listings/my-listings
func (h *ListingHandler) MyListings(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	page, err := h.uc.ListBySeller(c.Request().Context(), userID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /listings/category/:categoryId
func (h *ListingHandler) ByCategory(c echo.Context) error {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	page, err := h.uc.Browse(c.Request().Context(), usecase.BrowseListingsInput{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		CategoryID: categoryID,
	})
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /listings/:id
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	detail, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// POST /listings
func (h *ListingHandler) Create(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	var req usecase.CreateListingInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	created, err := h.uc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// PUT /listings/:id
func (h *ListingHandler) Update(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.UpdateListingInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.Update(c.Request().Context(), id, userID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /listings/:id
func (h *ListingHandler) Delete(c echo.Context) error {
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

// GET /listings/admin/all
func (h *ListingHandler) AdminList(c echo.Context) error {
	page, err := h.uc.AdminList(c.Request().Context(), c.QueryParam("status"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /listings/admin/user/:userId
func (h *ListingHandler) AdminUserListings(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	page, err := h.uc.ListBySeller(c.Request().Context(), userID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

type overrideStatusRequest struct {
	Status string `json:"status"`
}

// PUT /listings/admin/:id/status
func (h *ListingHandler) AdminOverrideStatus(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req overrideStatusRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.AdminOverrideStatus(c.Request().Context(), actorID, id, req.Status)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /listings/admin/:id
func (h *ListingHandler) AdminDelete(c echo.Context) error {
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
