package service

import (
	"context"
	"testing"

	"libraryhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestReviewService_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	book := &models.Book{ID: 1, Title: "Clean Architecture"}

	t.Run("CreatesFirstReview", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(book, nil).Once()
		reviewRepo.On("GetByUserAndBook", mock.Anything, "user-1", int64(1)).Return(nil, gorm.ErrRecordNotFound).Once()
		reviewRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
			return r.UserID == "user-1" && r.BookID == int64(1) && r.Rating == 4
		})).Return(nil).Once()
		reviewRepo.On("CountForBook", mock.Anything, int64(1)).Return(int64(1), nil).Once()
		reviewRepo.On("AverageForBook", mock.Anything, int64(1)).Return(4.0, nil).Once()
		bookRepo.On("UpdateRatingStats", mock.Anything, int64(1), mock.MatchedBy(func(avg *float64) bool {
			return avg != nil && *avg == 4.0
		}), 1).Return(nil).Once()

		svc := NewReviewService(reviewRepo, bookRepo, nil)
		review, err := svc.CreateOrUpdate(ctx, "user-1", 1, 4, nil)

		assert.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
		reviewRepo.AssertExpectations(t)
		bookRepo.AssertExpectations(t)
	})

	t.Run("SecondSubmissionUpdatesNotDuplicates", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		bookRepo := new(MockBookRepo)

		existing := &models.Review{ID: 7, UserID: "user-1", BookID: 1, Rating: 3}
		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(book, nil).Once()
		reviewRepo.On("GetByUserAndBook", mock.Anything, "user-1", int64(1)).Return(existing, nil).Once()
		reviewRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
			return r.ID == int64(7) && r.Rating == 5
		})).Return(nil).Once()
		// rating count stays at one: the vote moved, it did not stack
		reviewRepo.On("CountForBook", mock.Anything, int64(1)).Return(int64(1), nil).Once()
		reviewRepo.On("AverageForBook", mock.Anything, int64(1)).Return(5.0, nil).Once()
		bookRepo.On("UpdateRatingStats", mock.Anything, int64(1), mock.MatchedBy(func(avg *float64) bool {
			return avg != nil && *avg == 5.0
		}), 1).Return(nil).Once()

		svc := NewReviewService(reviewRepo, bookRepo, nil)
		review, err := svc.CreateOrUpdate(ctx, "user-1", 1, 5, nil)

		assert.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
		reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsRatingOutOfRange", func(t *testing.T) {
		svc := NewReviewService(new(MockReviewRepo), new(MockBookRepo), nil)

		_, err := svc.CreateOrUpdate(ctx, "user-1", 1, 0, nil)
		assert.ErrorIs(t, err, ErrInvalidRating)

		_, err = svc.CreateOrUpdate(ctx, "user-1", 1, 6, nil)
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("RoundsAverageToTwoDecimals", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(book, nil).Once()
		reviewRepo.On("GetByUserAndBook", mock.Anything, "user-1", int64(1)).Return(nil, gorm.ErrRecordNotFound).Once()
		reviewRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		reviewRepo.On("CountForBook", mock.Anything, int64(1)).Return(int64(3), nil).Once()
		reviewRepo.On("AverageForBook", mock.Anything, int64(1)).Return(11.0/3.0, nil).Once()
		bookRepo.On("UpdateRatingStats", mock.Anything, int64(1), mock.MatchedBy(func(avg *float64) bool {
			return avg != nil && *avg == 3.67
		}), 3).Return(nil).Once()

		svc := NewReviewService(reviewRepo, bookRepo, nil)
		_, err := svc.CreateOrUpdate(ctx, "user-1", 1, 4, nil)

		assert.NoError(t, err)
		bookRepo.AssertExpectations(t)
	})
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("RefreshesStatsAfterDelete", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		bookRepo := new(MockBookRepo)

		reviewRepo.On("Delete", mock.Anything, "user-1", int64(1)).Return(nil).Once()
		// last review gone: average goes back to null, not zero
		reviewRepo.On("CountForBook", mock.Anything, int64(1)).Return(int64(0), nil).Once()
		bookRepo.On("UpdateRatingStats", mock.Anything, int64(1), (*float64)(nil), 0).Return(nil).Once()

		svc := NewReviewService(reviewRepo, bookRepo, nil)
		err := svc.Delete(ctx, "user-1", 1)

		assert.NoError(t, err)
		reviewRepo.AssertNotCalled(t, "AverageForBook", mock.Anything, mock.Anything)
		bookRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		bookRepo := new(MockBookRepo)

		reviewRepo.On("Delete", mock.Anything, "user-1", int64(1)).Return(gorm.ErrRecordNotFound).Once()

		svc := NewReviewService(reviewRepo, bookRepo, nil)
		err := svc.Delete(ctx, "user-1", 1)

		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}
