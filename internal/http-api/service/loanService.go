package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"libraryhub/internal/cache"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/mailer"

	"gorm.io/gorm"
)

var (
	ErrOutOfStock      = errors.New("book is out of stock")
	ErrHasOverdueLoans = errors.New("user has overdue loans")
	ErrAlreadyBorrowed = errors.New("book already borrowed by this user")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrForbidden       = errors.New("loan belongs to another user")
	ErrAlreadyReturned = errors.New("loan already returned")
)

type LoanService interface {
	Borrow(ctx context.Context, userID string, bookID int64) (*models.Loan, error)
	Return(ctx context.Context, userID string, loanID int64, isAdmin bool) (*models.Loan, error)
	MyLoans(ctx context.Context, userID string) ([]models.Loan, error)
	MyHistory(ctx context.Context, userID string, limit int) ([]models.Loan, error)
	AllUnreturned(ctx context.Context) ([]models.Loan, error)
}

type loanService struct {
	loanRepo        repository.LoanRepository
	bookRepo        repository.BookRepository
	reservationRepo repository.ReservationRepository
	notifRepo       repository.NotificationRepository
	mailer          mailer.Mailer
	cache           *cache.BookCache
	logger          *slog.Logger
	loanPeriod      time.Duration
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
	reservationRepo repository.ReservationRepository,
	notifRepo repository.NotificationRepository,
	m mailer.Mailer,
	bookCache *cache.BookCache,
	loanPeriod time.Duration,
	logger *slog.Logger,
) LoanService {
	return &loanService{
		loanRepo:        loanRepo,
		bookRepo:        bookRepo,
		reservationRepo: reservationRepo,
		notifRepo:       notifRepo,
		mailer:          m,
		cache:           bookCache,
		logger:          logger,
		loanPeriod:      loanPeriod,
	}
}

// Borrow checks the borrowing rules and then takes a copy off the shelf
// atomically with the loan insert, so concurrent borrows of the last copy
// cannot both succeed.
func (s *loanService) Borrow(ctx context.Context, userID string, bookID int64) (*models.Loan, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	now := time.Now()

	open, err := s.loanRepo.FindUnreturnedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}
	for i := range open {
		if open[i].IsOverdue(now) {
			return nil, ErrHasOverdueLoans
		}
		if open[i].BookID != nil && *open[i].BookID == bookID {
			return nil, ErrAlreadyBorrowed
		}
	}

	loan := &models.Loan{
		UserID:     userID,
		BookID:     &bookID,
		BorrowedAt: now,
		DueAt:      now.Add(s.loanPeriod),
		Status:     models.LoanStatusActive,
	}

	created, err := s.loanRepo.CreateWithStock(ctx, loan)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrOutOfStock
	}

	s.cache.Invalidate(ctx, bookID)

	// A borrower picking up the copy they were waiting on closes their
	// reservation.
	if res, err := s.reservationRepo.FindOpenByUserAndBook(ctx, userID, bookID); err == nil {
		if err := s.reservationRepo.UpdateStatus(ctx, res.ID, models.ReservationStatusFulfilled); err != nil {
			s.logger.Error("failed to fulfill reservation", "reservation_id", res.ID, "err", err)
		}
	}

	return loan, nil
}

// Return records the return, restocks the copy and notifies the next
// reservation holder when the book comes back from zero stock. Only the
// borrower or an admin may return a loan.
func (s *loanService) Return(ctx context.Context, userID string, loanID int64, isAdmin bool) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if loan.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	if loan.ReturnedAt != nil {
		return nil, ErrAlreadyReturned
	}

	now := time.Now()
	loan.ReturnedAt = &now
	loan.Status = models.LoanStatusReturned

	quantity, err := s.loanRepo.MarkReturned(ctx, loan)
	if err != nil {
		return nil, err
	}

	if loan.BookID != nil {
		s.cache.Invalidate(ctx, *loan.BookID)
	}

	title := "your book"
	if loan.Book != nil {
		title = fmt.Sprintf("%q", loan.Book.Title)
	}
	notif := &models.Notification{
		UserID:  loan.UserID,
		Title:   "Book returned",
		Message: fmt.Sprintf("Thanks for returning %s.", title),
		Type:    models.NotificationTypeLoanReturned,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		s.logger.Error("failed to create return notification", "loan_id", loan.ID, "err", err)
	}

	// Stock going 0 -> 1 means the copy that just came back is the first one
	// available again: tell the reservation queue.
	if quantity == 1 && loan.BookID != nil {
		s.notifyNextReservation(ctx, *loan.BookID)
	}

	return loan, nil
}

// notifyNextReservation wakes the oldest pending holder for the book.
func (s *loanService) notifyNextReservation(ctx context.Context, bookID int64) {
	pending, err := s.reservationRepo.ListPendingForBook(ctx, bookID)
	if err != nil {
		s.logger.Error("failed to list pending reservations", "book_id", bookID, "err", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		s.logger.Error("failed to load book for reservation notice", "book_id", bookID, "err", err)
		return
	}

	res := pending[0]
	if err := s.reservationRepo.MarkNotified(ctx, res.ID, time.Now()); err != nil {
		s.logger.Error("failed to mark reservation notified", "reservation_id", res.ID, "err", err)
		return
	}

	link := fmt.Sprintf("/books/%d", bookID)
	notif := &models.Notification{
		UserID:  res.UserID,
		Title:   "Reserved book available",
		Message: fmt.Sprintf("%q is back in stock. First come, first served.", book.Title),
		Type:    models.NotificationTypeBookAvailable,
		Link:    &link,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		s.logger.Error("failed to create availability notification", "reservation_id", res.ID, "err", err)
	}

	if res.User != nil {
		if err := s.mailer.SendBookAvailable(ctx, res.User.Email, res.User.FirstName, book.Title); err != nil {
			s.logger.Error("failed to send availability email", "reservation_id", res.ID, "err", err)
		}
	}
}

func (s *loanService) MyLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	return s.loanRepo.FindUnreturnedByUser(ctx, userID)
}

func (s *loanService) MyHistory(ctx context.Context, userID string, limit int) ([]models.Loan, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.loanRepo.ListHistoryForUser(ctx, userID, limit)
}

func (s *loanService) AllUnreturned(ctx context.Context) ([]models.Loan, error) {
	return s.loanRepo.FindUnreturned(ctx)
}
