package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

// OverdueService answers time-derived questions about loans and keeps the
// stored status column in line with the clock.
type OverdueService interface {
	// CanBorrow reports whether the user has no overdue loans.
	CanBorrow(ctx context.Context, userID string) (bool, error)
	// DueSoon lists the user's unreturned loans due within days calendar days.
	DueSoon(ctx context.Context, userID string, days int) ([]models.Loan, error)
	ListOverdue(ctx context.Context) ([]models.Loan, error)
	CountOverdue(ctx context.Context) (int64, error)
	// UpdateAllStatuses rewrites the status column of every loan whose
	// derived status has drifted, returning the number touched.
	UpdateAllStatuses(ctx context.Context) (int64, error)
}

type overdueService struct {
	loanRepo repository.LoanRepository
	logger   *slog.Logger
}

func NewOverdueService(loanRepo repository.LoanRepository, logger *slog.Logger) OverdueService {
	return &overdueService{loanRepo: loanRepo, logger: logger}
}

func (s *overdueService) CanBorrow(ctx context.Context, userID string) (bool, error) {
	loans, err := s.loanRepo.FindUnreturnedByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	now := time.Now()
	for i := range loans {
		if loans[i].IsOverdue(now) {
			return false, nil
		}
	}
	return true, nil
}

func (s *overdueService) DueSoon(ctx context.Context, userID string, days int) ([]models.Loan, error) {
	loans, err := s.loanRepo.FindUnreturnedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]models.Loan, 0, len(loans))
	for i := range loans {
		if loans[i].IsOverdue(now) {
			continue
		}
		if loans[i].DaysRemainingAt(now) <= days {
			out = append(out, loans[i])
		}
	}
	return out, nil
}

func (s *overdueService) ListOverdue(ctx context.Context) ([]models.Loan, error) {
	return s.loanRepo.FindOverdue(ctx, time.Now())
}

func (s *overdueService) CountOverdue(ctx context.Context) (int64, error) {
	return s.loanRepo.CountOverdue(ctx, time.Now())
}

func (s *overdueService) UpdateAllStatuses(ctx context.Context) (int64, error) {
	loans, err := s.loanRepo.FindUnreturned(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unreturned loans: %w", err)
	}

	now := time.Now()
	var updated int64
	for i := range loans {
		want := loans[i].StatusAt(now)
		if loans[i].Status == want {
			continue
		}
		if err := s.loanRepo.UpdateStatus(ctx, loans[i].ID, want); err != nil {
			return updated, fmt.Errorf("update status for loan %d: %w", loans[i].ID, err)
		}
		updated++
	}

	if updated > 0 {
		s.logger.Info("loan statuses reconciled", "updated", updated)
	}
	return updated, nil
}
