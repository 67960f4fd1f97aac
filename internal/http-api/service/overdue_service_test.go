package service

import (
	"context"
	"testing"
	"time"

	"libraryhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOverdueService_CanBorrow(t *testing.T) {
	ctx := context.Background()
	bookID := int64(1)

	t.Run("NoOpenLoans", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		loanRepo.On("FindUnreturnedByUser", mock.Anything, "user-1").Return([]models.Loan{}, nil).Once()

		svc := NewOverdueService(loanRepo, testLogger())
		ok, err := svc.CanBorrow(ctx, "user-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ActiveLoanDueTomorrowStillAllowed", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		loans := []models.Loan{{
			ID: 1, UserID: "user-1", BookID: &bookID,
			DueAt: time.Now().Add(24 * time.Hour), Status: models.LoanStatusActive,
		}}
		loanRepo.On("FindUnreturnedByUser", mock.Anything, "user-1").Return(loans, nil).Once()

		svc := NewOverdueService(loanRepo, testLogger())
		ok, err := svc.CanBorrow(ctx, "user-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OverdueLoanBlocks", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		loans := []models.Loan{{
			ID: 1, UserID: "user-1", BookID: &bookID,
			DueAt: time.Now().Add(-24 * time.Hour), Status: models.LoanStatusActive,
		}}
		loanRepo.On("FindUnreturnedByUser", mock.Anything, "user-1").Return(loans, nil).Once()

		svc := NewOverdueService(loanRepo, testLogger())
		ok, err := svc.CanBorrow(ctx, "user-1")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOverdueService_DueSoon(t *testing.T) {
	ctx := context.Background()
	bookID := int64(1)

	loanRepo := new(MockLoanRepo)
	loans := []models.Loan{
		{ID: 1, UserID: "user-1", BookID: &bookID, DueAt: time.Now().Add(2 * 24 * time.Hour), Status: models.LoanStatusActive},
		{ID: 2, UserID: "user-1", BookID: &bookID, DueAt: time.Now().Add(10 * 24 * time.Hour), Status: models.LoanStatusActive},
		// already overdue loans are the overdue list's business, not due-soon
		{ID: 3, UserID: "user-1", BookID: &bookID, DueAt: time.Now().Add(-24 * time.Hour), Status: models.LoanStatusActive},
	}
	loanRepo.On("FindUnreturnedByUser", mock.Anything, "user-1").Return(loans, nil).Once()

	svc := NewOverdueService(loanRepo, testLogger())
	dueSoon, err := svc.DueSoon(ctx, "user-1", 3)

	assert.NoError(t, err)
	assert.Len(t, dueSoon, 1)
	assert.Equal(t, int64(1), dueSoon[0].ID)
}

func TestOverdueService_UpdateAllStatuses(t *testing.T) {
	ctx := context.Background()
	bookID := int64(1)

	t.Run("FlipsDriftedStatusesOnly", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		loans := []models.Loan{
			// past due but still marked active: needs the flip
			{ID: 1, UserID: "u1", BookID: &bookID, DueAt: time.Now().Add(-48 * time.Hour), Status: models.LoanStatusActive},
			// already marked overdue: untouched
			{ID: 2, UserID: "u2", BookID: &bookID, DueAt: time.Now().Add(-24 * time.Hour), Status: models.LoanStatusOverdue},
			// healthy active loan: untouched
			{ID: 3, UserID: "u3", BookID: &bookID, DueAt: time.Now().Add(24 * time.Hour), Status: models.LoanStatusActive},
		}
		loanRepo.On("FindUnreturned", mock.Anything).Return(loans, nil).Once()
		loanRepo.On("UpdateStatus", mock.Anything, int64(1), models.LoanStatusOverdue).Return(nil).Once()

		svc := NewOverdueService(loanRepo, testLogger())
		updated, err := svc.UpdateAllStatuses(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), updated)
		loanRepo.AssertExpectations(t)
	})

	t.Run("SecondRunIsIdempotent", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		loans := []models.Loan{
			{ID: 2, UserID: "u2", BookID: &bookID, DueAt: time.Now().Add(-24 * time.Hour), Status: models.LoanStatusOverdue},
		}
		loanRepo.On("FindUnreturned", mock.Anything).Return(loans, nil).Once()

		svc := NewOverdueService(loanRepo, testLogger())
		updated, err := svc.UpdateAllStatuses(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), updated)
		loanRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
