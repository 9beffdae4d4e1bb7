package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reviewUCMocks struct {
	tx      *TxManagerMock
	reviews *ReviewRepoMock
	orders  *OrderRepoMock
	now     time.Time
}

func newReviewUsecase() (*usecase.ReviewUsecase, *reviewUCMocks) {
	reviews := new(ReviewRepoMock)
	orders := new(OrderRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		reviews: reviews,
		orders:  orders,
	}}

	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	uc := usecase.NewReviewUsecase(tx, reviews, orders, &fixedClock{now: now})

	return uc, &reviewUCMocks{tx: tx, reviews: reviews, orders: orders, now: now}
}

func completedOrder(id int64, buyerID int64) model.Order {
	return model.Order{ID: id, ListingID: 5, BuyerID: buyerID, Status: model.OrderStatusCompleted}
}

func TestCreateReview_Success(t *testing.T) {
	uc, m := newReviewUsecase()

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)
	m.reviews.On("ExistsByOrderID", mock.Anything, int64(10)).Return(false, nil)
	m.reviews.On("Create", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.OrderID == 10 && r.Rating == 5 && r.Comment == "great seller"
	})).Return(model.Review{ID: 1, OrderID: 10, Rating: 5, Comment: "great seller"}, nil)

	out, err := uc.Create(context.Background(), 2, 10, usecase.CreateReviewInput{Rating: 5, Comment: "  great seller  "})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	m.reviews.AssertExpectations(t)
}

func TestCreateReview_OrderNotCompleted(t *testing.T) {
	uc, m := newReviewUsecase()

	order := completedOrder(10, 2)
	order.Status = model.OrderStatusConfirmed

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(order, nil)

	_, err := uc.Create(context.Background(), 2, 10, usecase.CreateReviewInput{Rating: 4})

	assertErrContains(t, err, "order is not completed")
}

func TestCreateReview_NotTheBuyer(t *testing.T) {
	uc, m := newReviewUsecase()

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)

	_, err := uc.Create(context.Background(), 99, 10, usecase.CreateReviewInput{Rating: 4})

	assertErrContains(t, err, "not the buyer")
}

func TestCreateReview_Duplicate(t *testing.T) {
	uc, m := newReviewUsecase()

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)
	m.reviews.On("ExistsByOrderID", mock.Anything, int64(10)).Return(true, nil)

	_, err := uc.Create(context.Background(), 2, 10, usecase.CreateReviewInput{Rating: 4})

	assertErrContains(t, err, "review already exists")
	m.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	uc, _ := newReviewUsecase()

	_, err := uc.Create(context.Background(), 2, 10, usecase.CreateReviewInput{Rating: 0})
	assertErrContains(t, err, "rating must be between 1 and 5")

	_, err = uc.Create(context.Background(), 2, 10, usecase.CreateReviewInput{Rating: 6})
	assertErrContains(t, err, "rating must be between 1 and 5")
}

func TestUpdateReview_WithinWindow(t *testing.T) {
	uc, m := newReviewUsecase()

	//作成から23時間ならまだ編集できる
	review := model.Review{ID: 1, OrderID: 10, Rating: 3, CreatedAt: m.now.Add(-23 * time.Hour)}

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(review, nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)
	m.reviews.On("Update", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.ID == 1 && r.Rating == 4
	})).Return(nil)

	out, err := uc.Update(context.Background(), 1, 2, usecase.UpdateReviewInput{Rating: 4, Comment: "updated"})

	assert.NoError(t, err)
	assert.Equal(t, 4, out.Rating)
	m.reviews.AssertExpectations(t)
}

func TestUpdateReview_WindowPassed(t *testing.T) {
	uc, m := newReviewUsecase()

	review := model.Review{ID: 1, OrderID: 10, Rating: 3, CreatedAt: m.now.Add(-25 * time.Hour)}

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(review, nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)

	_, err := uc.Update(context.Background(), 1, 2, usecase.UpdateReviewInput{Rating: 4})

	assertErrContains(t, err, "edit window has passed")
	m.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateReview_NotTheReviewer(t *testing.T) {
	uc, m := newReviewUsecase()

	review := model.Review{ID: 1, OrderID: 10, Rating: 3, CreatedAt: m.now.Add(-time.Hour)}

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(review, nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)

	_, err := uc.Update(context.Background(), 1, 99, usecase.UpdateReviewInput{Rating: 4})

	assertErrContains(t, err, "not the reviewer")
}

func TestDeleteReview_WithinWindow(t *testing.T) {
	uc, m := newReviewUsecase()

	review := model.Review{ID: 1, OrderID: 10, Rating: 3, CreatedAt: m.now.Add(-time.Hour)}

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(review, nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)
	m.reviews.On("Delete", mock.Anything, int64(1)).Return(nil)

	err := uc.Delete(context.Background(), 1, 2)

	assert.NoError(t, err)
	m.reviews.AssertExpectations(t)
}

func TestDeleteReview_WindowPassed(t *testing.T) {
	uc, m := newReviewUsecase()

	review := model.Review{ID: 1, OrderID: 10, Rating: 3, CreatedAt: m.now.Add(-48 * time.Hour)}

	m.tx.On("WithinTx", mock.Anything).Return(nil)
	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(review, nil)
	m.orders.On("FindByID", mock.Anything, int64(10)).Return(completedOrder(10, 2), nil)

	err := uc.Delete(context.Background(), 1, 2)

	assertErrContains(t, err, "edit window has passed")
	m.reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSellerAverageRating(t *testing.T) {
	uc, m := newReviewUsecase()

	m.reviews.On("AverageRatingBySeller", mock.Anything, int64(1)).Return(4.5, nil)
	m.reviews.On("CountBySeller", mock.Anything, int64(1)).Return(int64(12), nil)

	summary, err := uc.SellerAverageRating(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, int64(12), summary.ReviewCount)
}
