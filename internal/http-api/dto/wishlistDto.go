package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// AddWishlistRequest used for POST /api/wishlist
type AddWishlistRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

// WishlistEntryResponse DTO for responses
type WishlistEntryResponse struct {
	ID      int64              `json:"id"`
	Book    *BookBasicResponse `json:"book,omitempty"`
	AddedAt time.Time          `json:"added_at"`
}

func FromWishlistModel(e models.WishlistEntry) WishlistEntryResponse {
	resp := WishlistEntryResponse{
		ID:      e.ID,
		AddedAt: e.AddedAt,
	}
	if e.Book != nil {
		b := FromBookModelToBasic(*e.Book)
		resp.Book = &b
	}
	return resp
}
