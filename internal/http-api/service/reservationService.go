package service

import (
	"context"
	"errors"
	"time"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrBookAvailable       = errors.New("book is in stock, borrow it instead")
	ErrAlreadyReserved     = errors.New("user already has an open reservation for this book")
	ErrReservationNotFound = errors.New("reservation not found")
)

type ReservationService interface {
	// Reserve queues the user for an out-of-stock book.
	Reserve(ctx context.Context, userID string, bookID int64) (*models.Reservation, error)
	// Cancel closes the user's own open reservation.
	Cancel(ctx context.Context, userID string, reservationID int64) error
	ListOwn(ctx context.Context, userID string) ([]models.Reservation, error)
	// ListForBook returns the pending queue for a book in notify order.
	ListForBook(ctx context.Context, bookID int64) ([]models.Reservation, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	bookRepo        repository.BookRepository
}

func NewReservationService(reservationRepo repository.ReservationRepository, bookRepo repository.BookRepository) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		bookRepo:        bookRepo,
	}
}

func (s *reservationService) Reserve(ctx context.Context, userID string, bookID int64) (*models.Reservation, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if book.Available() {
		return nil, ErrBookAvailable
	}

	if _, err := s.reservationRepo.FindOpenByUserAndBook(ctx, userID, bookID); err == nil {
		return nil, ErrAlreadyReserved
	}

	res := &models.Reservation{
		UserID:     userID,
		BookID:     bookID,
		ReservedAt: time.Now(),
		Status:     models.ReservationStatusPending,
	}
	if err := s.reservationRepo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *reservationService) Cancel(ctx context.Context, userID string, reservationID int64) error {
	res, err := s.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}

	if res.UserID != userID {
		return ErrForbidden
	}
	if !res.Open() {
		return ErrReservationNotFound
	}

	return s.reservationRepo.UpdateStatus(ctx, reservationID, models.ReservationStatusCancelled)
}

func (s *reservationService) ListOwn(ctx context.Context, userID string) ([]models.Reservation, error) {
	return s.reservationRepo.ListOpenForUser(ctx, userID)
}

func (s *reservationService) ListForBook(ctx context.Context, bookID int64) ([]models.Reservation, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return s.reservationRepo.ListPendingForBook(ctx, bookID)
}
