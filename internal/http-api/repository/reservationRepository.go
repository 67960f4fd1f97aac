package repository

import (
	"context"
	"time"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, id int64) (*models.Reservation, error)
	// FindOpenByUserAndBook returns the user's pending or notified reservation
	// for a book, if any.
	FindOpenByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Reservation, error)
	ListOpenForUser(ctx context.Context, userID string) ([]models.Reservation, error)
	// ListPendingForBook returns pending holders in FIFO order.
	ListPendingForBook(ctx context.Context, bookID int64) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error
	MarkNotified(ctx context.Context, id int64, at time.Time) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).Preload("Book").First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) FindOpenByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status IN ?", userID, bookID,
			[]models.ReservationStatus{models.ReservationStatusPending, models.ReservationStatusNotified}).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) ListOpenForUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	var list []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND status IN ?", userID,
			[]models.ReservationStatus{models.ReservationStatusPending, models.ReservationStatusNotified}).
		Order("reserved_at DESC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepository) ListPendingForBook(ctx context.Context, bookID int64) ([]models.Reservation, error) {
	var list []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ? AND status = ?", bookID, models.ReservationStatusPending).
		Order("reserved_at ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reservationRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.ReservationStatusNotified,
			"notified_at": at,
		}).Error
}
