package service

import (
	"context"
	"testing"

	"libraryhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestReservationService_Reserve(t *testing.T) {
	ctx := context.Background()
	outOfStock := &models.Book{ID: 1, Title: "The Mythical Man-Month", Quantity: 0}

	t.Run("Success", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(outOfStock, nil).Once()
		resRepo.On("FindOpenByUserAndBook", mock.Anything, "user-1", int64(1)).Return(nil, gorm.ErrRecordNotFound).Once()
		resRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Reservation) bool {
			return r.UserID == "user-1" && r.BookID == int64(1) && r.Status == models.ReservationStatusPending
		})).Return(nil).Once()

		svc := NewReservationService(resRepo, bookRepo)
		res, err := svc.Reserve(ctx, "user-1", 1)

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.False(t, res.ReservedAt.IsZero())
		resRepo.AssertExpectations(t)
	})

	t.Run("BookInStock", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&models.Book{ID: 1, Quantity: 3}, nil).Once()

		svc := NewReservationService(resRepo, bookRepo)
		_, err := svc.Reserve(ctx, "user-1", 1)

		assert.ErrorIs(t, err, ErrBookAvailable)
		resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateReservation", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(outOfStock, nil).Once()
		resRepo.On("FindOpenByUserAndBook", mock.Anything, "user-1", int64(1)).
			Return(&models.Reservation{ID: 4, UserID: "user-1", BookID: 1, Status: models.ReservationStatusPending}, nil).Once()

		svc := NewReservationService(resRepo, bookRepo)
		_, err := svc.Reserve(ctx, "user-1", 1)

		assert.ErrorIs(t, err, ErrAlreadyReserved)
	})

	t.Run("BookNotFound", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound).Once()

		svc := NewReservationService(resRepo, bookRepo)
		_, err := svc.Reserve(ctx, "user-1", 99)

		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	open := func() *models.Reservation {
		return &models.Reservation{ID: 5, UserID: "user-1", BookID: 1, Status: models.ReservationStatusPending}
	}

	t.Run("Success", func(t *testing.T) {
		resRepo := new(MockReservationRepo)

		resRepo.On("FindByID", mock.Anything, int64(5)).Return(open(), nil).Once()
		resRepo.On("UpdateStatus", mock.Anything, int64(5), models.ReservationStatusCancelled).Return(nil).Once()

		svc := NewReservationService(resRepo, new(MockBookRepo))
		assert.NoError(t, svc.Cancel(ctx, "user-1", 5))
		resRepo.AssertExpectations(t)
	})

	t.Run("ForbiddenForOtherUser", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		resRepo.On("FindByID", mock.Anything, int64(5)).Return(open(), nil).Once()

		svc := NewReservationService(resRepo, new(MockBookRepo))
		err := svc.Cancel(ctx, "user-2", 5)

		assert.ErrorIs(t, err, ErrForbidden)
		resRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		done := open()
		done.Status = models.ReservationStatusFulfilled
		resRepo.On("FindByID", mock.Anything, int64(5)).Return(done, nil).Once()

		svc := NewReservationService(resRepo, new(MockBookRepo))
		err := svc.Cancel(ctx, "user-1", 5)

		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		resRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound).Once()

		svc := NewReservationService(resRepo, new(MockBookRepo))
		err := svc.Cancel(ctx, "user-1", 99)

		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestReservationService_ListForBook(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsQueueInOrder", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&models.Book{ID: 1, Quantity: 0}, nil).Once()
		queue := []models.Reservation{
			{ID: 2, UserID: "user-1", BookID: 1, Status: models.ReservationStatusPending},
			{ID: 6, UserID: "user-2", BookID: 1, Status: models.ReservationStatusPending},
		}
		resRepo.On("ListPendingForBook", mock.Anything, int64(1)).Return(queue, nil).Once()

		svc := NewReservationService(resRepo, bookRepo)
		list, err := svc.ListForBook(ctx, 1)

		assert.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, int64(2), list[0].ID)
	})

	t.Run("UnknownBook", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound).Once()

		svc := NewReservationService(resRepo, bookRepo)
		_, err := svc.ListForBook(ctx, 99)

		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}
