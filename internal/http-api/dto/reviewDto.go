package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// UpsertReviewDTO used for PUT /api/books/:id/reviews
type UpsertReviewDTO struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewResponse DTO for responses
type ReviewResponse struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	Reviewer  string    `json:"reviewer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromReviewModel(r models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		BookID:    r.BookID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		resp.Reviewer = r.User.FirstName + " " + r.User.LastName
	}
	return resp
}
