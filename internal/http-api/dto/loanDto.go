package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// BorrowRequest used for POST /api/loans
type BorrowRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

// LoanResponse DTO for responses
type LoanResponse struct {
	ID            int64      `json:"id"`
	BookID        *int64     `json:"book_id,omitempty"`
	BookTitle     *string    `json:"book_title,omitempty"`
	UserEmail     *string    `json:"user_email,omitempty"`
	BorrowedAt    time.Time  `json:"borrowed_at"`
	DueAt         time.Time  `json:"due_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	Status        string     `json:"status"`
	DaysRemaining int        `json:"days_remaining"`
}

// FromLoanModel derives status and days remaining from the clock rather than
// trusting the stored column.
func FromLoanModel(l models.Loan, now time.Time) LoanResponse {
	resp := LoanResponse{
		ID:            l.ID,
		BookID:        l.BookID,
		BorrowedAt:    l.BorrowedAt,
		DueAt:         l.DueAt,
		ReturnedAt:    l.ReturnedAt,
		Status:        string(l.StatusAt(now)),
		DaysRemaining: l.DaysRemainingAt(now),
	}
	if l.Book != nil {
		resp.BookTitle = &l.Book.Title
	}
	if l.User != nil {
		resp.UserEmail = &l.User.Email
	}
	return resp
}

func FromLoanModels(loans []models.Loan, now time.Time) []LoanResponse {
	resp := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, FromLoanModel(l, now))
	}
	return resp
}
