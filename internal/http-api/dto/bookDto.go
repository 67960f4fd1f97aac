package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// CreateBookDTO used for POST /api/books
type CreateBookDTO struct {
	Title       string     `json:"title" binding:"required"`
	ISBN        string     `json:"isbn,omitempty"`
	Quantity    int        `json:"quantity" binding:"gte=0"`
	UnitPrice   float64    `json:"unit_price,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Description *string    `json:"description,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	PublisherID int64      `json:"publisher_id" binding:"required"`
	CategoryID  int64      `json:"category_id" binding:"required"`
	AuthorIDs   []int64    `json:"author_ids,omitempty"`
}

// UpdateBookDTO used for PUT /api/books/:id (partial updates allowed)
type UpdateBookDTO struct {
	Title       *string    `json:"title,omitempty"`
	ISBN        *string    `json:"isbn,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	UnitPrice   *float64   `json:"unit_price,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Description *string    `json:"description,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	PublisherID *int64     `json:"publisher_id,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	AuthorIDs   *[]int64   `json:"author_ids,omitempty"`
}

// CreateCategoryDTO used for POST /api/catalog/categories
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required"`
}

// CreateAuthorDTO used for POST /api/catalog/authors
type CreateAuthorDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name" binding:"required"`
}

// CreatePublisherDTO used for POST /api/catalog/publishers
type CreatePublisherDTO struct {
	Name string `json:"name" binding:"required"`
}

// BookResponse DTO for detail responses
type BookResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	ISBN          string     `json:"isbn,omitempty"`
	Quantity      int        `json:"quantity"`
	Available     bool       `json:"available"`
	UnitPrice     float64    `json:"unit_price,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CoverURL      *string    `json:"cover_url,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	RatingCount   int        `json:"rating_count"`
	Publisher     *string    `json:"publisher,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Authors       []string   `json:"authors,omitempty"`
}

// BookBasicResponse DTO for list results, only essential fields
type BookBasicResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Available     bool     `json:"available"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	CoverURL      *string  `json:"cover_url,omitempty"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	b := models.Book{
		Title:       d.Title,
		ISBN:        d.ISBN,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		PublishedAt: d.PublishedAt,
		Description: d.Description,
		CoverURL:    d.CoverURL,
		PublisherID: d.PublisherID,
		CategoryID:  d.CategoryID,
	}
	for _, id := range d.AuthorIDs {
		b.Authors = append(b.Authors, models.Author{ID: id})
	}
	return b
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.ISBN != nil {
		b.ISBN = *d.ISBN
	}
	if d.Quantity != nil {
		b.Quantity = *d.Quantity
	}
	if d.UnitPrice != nil {
		b.UnitPrice = *d.UnitPrice
	}
	if d.PublishedAt != nil {
		b.PublishedAt = d.PublishedAt
	}
	if d.Description != nil {
		b.Description = d.Description
	}
	if d.CoverURL != nil {
		b.CoverURL = d.CoverURL
	}
	if d.PublisherID != nil {
		b.PublisherID = *d.PublisherID
	}
	if d.CategoryID != nil {
		b.CategoryID = *d.CategoryID
	}
	if d.AuthorIDs != nil {
		// non-nil empty slice means "clear the author list"
		b.Authors = make([]models.Author, 0, len(*d.AuthorIDs))
		for _, id := range *d.AuthorIDs {
			b.Authors = append(b.Authors, models.Author{ID: id})
		}
	}
}

func FromBookModel(b models.Book) BookResponse {
	resp := BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		Quantity:      b.Quantity,
		Available:     b.Available(),
		UnitPrice:     b.UnitPrice,
		PublishedAt:   b.PublishedAt,
		Description:   b.Description,
		CoverURL:      b.CoverURL,
		AverageRating: b.AverageRating,
		RatingCount:   b.RatingCount,
	}
	if b.Publisher != nil {
		resp.Publisher = &b.Publisher.Name
	}
	if b.Category != nil {
		resp.Category = &b.Category.Name
	}
	for _, a := range b.Authors {
		resp.Authors = append(resp.Authors, a.FirstName+" "+a.LastName)
	}
	return resp
}

func FromBookModelToBasic(b models.Book) BookBasicResponse {
	return BookBasicResponse{
		ID:            b.ID,
		Title:         b.Title,
		Available:     b.Available(),
		AverageRating: b.AverageRating,
		CoverURL:      b.CoverURL,
	}
}
