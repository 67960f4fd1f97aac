package service

import (
	"context"
	"math"
	"time"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

// DashboardStats is the admin overview snapshot.
type DashboardStats struct {
	TotalBooks     int64   `json:"total_books"`
	AvailableBooks int64   `json:"available_books"`
	TotalUsers     int64   `json:"total_users"`
	AdminUsers     int64   `json:"admin_users"`
	TotalLoans     int64   `json:"total_loans"`
	OpenLoans      int64   `json:"open_loans"`
	CompletedLoans int64   `json:"completed_loans"`
	OverdueLoans   int64   `json:"overdue_loans"`
	TotalReviews   int64   `json:"total_reviews"`
	AverageRating  float64 `json:"average_rating"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	TopBooks(ctx context.Context, limit int) ([]repository.BookLoanCount, error)
	TopBorrowers(ctx context.Context, limit int) ([]repository.UserLoanCount, error)
	RecentLoans(ctx context.Context, limit int) ([]models.Loan, error)
	LowStock(ctx context.Context, threshold int) ([]models.Book, error)
	OutOfStock(ctx context.Context) ([]models.Book, error)
}

type statsService struct {
	bookRepo   repository.BookRepository
	loanRepo   repository.LoanRepository
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
}

func NewStatsService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
) StatsService {
	return &statsService{
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalBooks, err = s.bookRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.AvailableBooks, err = s.bookRepo.CountAvailable(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.AdminUsers, err = s.userRepo.CountAdmins(); err != nil {
		return nil, err
	}
	if stats.TotalLoans, err = s.loanRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.OpenLoans, err = s.loanRepo.CountUnreturned(ctx); err != nil {
		return nil, err
	}
	stats.CompletedLoans = stats.TotalLoans - stats.OpenLoans
	if stats.OverdueLoans, err = s.loanRepo.CountOverdue(ctx, time.Now()); err != nil {
		return nil, err
	}
	if stats.TotalReviews, err = s.reviewRepo.CountAll(ctx); err != nil {
		return nil, err
	}

	avg, err := s.reviewRepo.GlobalAverage(ctx)
	if err != nil {
		return nil, err
	}
	stats.AverageRating = math.Round(avg*100) / 100

	return stats, nil
}

func (s *statsService) TopBooks(ctx context.Context, limit int) ([]repository.BookLoanCount, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.loanRepo.TopBooks(ctx, limit)
}

func (s *statsService) TopBorrowers(ctx context.Context, limit int) ([]repository.UserLoanCount, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.loanRepo.TopBorrowers(ctx, limit)
}

func (s *statsService) RecentLoans(ctx context.Context, limit int) ([]models.Loan, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.loanRepo.Recent(ctx, limit)
}

func (s *statsService) LowStock(ctx context.Context, threshold int) ([]models.Book, error) {
	return s.bookRepo.FindLowStock(ctx, threshold)
}

func (s *statsService) OutOfStock(ctx context.Context) ([]models.Book, error) {
	return s.bookRepo.FindOutOfStock(ctx)
}
