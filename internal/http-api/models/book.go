package models

import "time"

type Book struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"not null"`
	ISBN          string     `json:"isbn" gorm:"size:20;index"`
	Quantity      int        `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	UnitPrice     float64    `json:"unit_price"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Description   *string    `json:"description,omitempty" gorm:"type:text"`
	CoverURL      *string    `json:"cover_url,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty" gorm:"type:decimal(3,2)"`
	RatingCount   int        `json:"rating_count" gorm:"default:0"`
	PublisherID   int64      `json:"publisher_id" gorm:"not null;index"`
	CategoryID    int64      `json:"category_id" gorm:"not null;index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Publisher *Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Category  *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Authors   []Author   `json:"authors,omitempty" gorm:"many2many:book_authors;"`
}

// Available reports whether at least one copy is on hand.
func (b *Book) Available() bool {
	return b.Quantity > 0
}

func (Book) TableName() string {
	return "books"
}
