package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/reviews/orders/:orderId", h.Create)
	g.GET("/reviews/orders/:orderId", h.GetByOrder)
	g.GET("/reviews/listings/:listingId", h.ListByListing)
	g.GET("/reviews/listings/:listingId/average-rating", h.ListingAverage)
	g.GET("/reviews/sellers/:sellerId/average-rating", h.SellerAverage)
	g.GET("/reviews/my-reviews", h.MyReviews)
	g.PUT("/reviews/:id", h.Update)
	g.DELETE("/reviews/:id", h.Delete)
}

// POST /reviews/orders/:orderId
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.CreateReviewInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	created, err := h.uc.Create(c.Request().Context(), userID, orderID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GET /reviews/orders/:orderId
func (h *ReviewHandler) GetByOrder(c echo.Context) error {
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	review, err := h.uc.GetByOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

// GET /reviews/listings/:listingId
func (h *ReviewHandler) ListByListing(c echo.Context) error {
	listingID, err := pathID(c, "listingId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	page, err := h.uc.ListByListing(c.Request().Context(), listingID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /reviews/listings/:listingId/average-rating
func (h *ReviewHandler) ListingAverage(c echo.Context) error {
	listingID, err := pathID(c, "listingId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	summary, err := h.uc.ListingAverageRating(c.Request().Context(), listingID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GET /reviews/sellers/:sellerId/average-rating
func (h *ReviewHandler) SellerAverage(c echo.Context) error {
	sellerID, err := pathID(c, "sellerId")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	summary, err := h.uc.SellerAverageRating(c.Request().Context(), sellerID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GET /reviews/my-reviews
func (h *ReviewHandler) MyReviews(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	reviews, err := h.uc.ListMyReviews(c.Request().Context(), userID)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// PUT /reviews/:id
func (h *ReviewHandler) Update(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	var req usecase.UpdateReviewInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	updated, err := h.uc.Update(c.Request().Context(), id, userID, req)
	if err != nil {
		return writeUsecaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /reviews/:id
func (h *ReviewHandler) Delete(c echo.Context) error {
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
