package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// ReserveRequest used for POST /api/reservations
type ReserveRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

// ReservationResponse DTO for responses
type ReservationResponse struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  *string    `json:"book_title,omitempty"`
	UserEmail  *string    `json:"user_email,omitempty"`
	ReservedAt time.Time  `json:"reserved_at"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	Status     string     `json:"status"`
}

func FromReservationModel(r models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		ReservedAt: r.ReservedAt,
		NotifiedAt: r.NotifiedAt,
		Status:     string(r.Status),
	}
	if r.Book != nil {
		resp.BookTitle = &r.Book.Title
	}
	if r.User != nil {
		resp.UserEmail = &r.User.Email
	}
	return resp
}
