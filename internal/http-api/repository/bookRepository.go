package repository

import (
	"context"
	"fmt"
	"strings"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

// BookFilters narrows and orders a catalog listing.
type BookFilters struct {
	CategoryID  *int64
	AuthorID    *int64
	PublisherID *int64
	Year        *int
	SortBy      string // title, published_at, average_rating
	SortOrder   string // asc, desc
}

type BookRepository interface {
	GetAll(ctx context.Context, filters BookFilters, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id int64, b *models.Book) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]models.Book, error)
	ReplaceAuthors(ctx context.Context, id int64, authors []models.Author) error
	DecrementStock(ctx context.Context, id int64) (bool, error)
	IncrementStock(ctx context.Context, id int64) (int, error)
	UpdateRatingStats(ctx context.Context, id int64, average *float64, count int) error
	CountAll(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)
	FindLowStock(ctx context.Context, threshold int) ([]models.Book, error)
	FindOutOfStock(ctx context.Context) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

var bookSortColumns = map[string]string{
	"title":          "title",
	"published_at":   "published_at",
	"average_rating": "average_rating",
	"created_at":     "created_at",
}

func (r *bookRepository) GetAll(ctx context.Context, filters BookFilters, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Book{})
	if filters.CategoryID != nil {
		q = q.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.PublisherID != nil {
		q = q.Where("publisher_id = ?", *filters.PublisherID)
	}
	if filters.AuthorID != nil {
		q = q.Joins("JOIN book_authors ON book_authors.book_id = books.id").
			Where("book_authors.author_id = ?", *filters.AuthorID)
	}
	if filters.Year != nil {
		q = q.Where("EXTRACT(YEAR FROM published_at) = ?", *filters.Year)
	}

	// Count total records
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := bookSortColumns[filters.SortBy]
	if !ok {
		column = "published_at"
	}
	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}

	offset := (page - 1) * pageSize
	err := q.
		Preload("Publisher").
		Preload("Category").
		Preload("Authors").
		Order(fmt.Sprintf("%s %s NULLS LAST", column, order)).
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Preload("Category").
		Preload("Authors").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, id int64, b *models.Book) error {
	b.ID = id
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// ReplaceAuthors rewrites the book's author links to exactly the given set.
func (r *bookRepository) ReplaceAuthors(ctx context.Context, id int64, authors []models.Author) error {
	book := models.Book{ID: id}
	if err := r.db.WithContext(ctx).Model(&book).Association("Authors").Replace(&authors); err != nil {
		return fmt.Errorf("replace book authors: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// Search performs case-insensitive partial match on title, ISBN and author
// names. Splits the query into tokens and requires each token to appear in at
// least one of the fields.
func (r *bookRepository) Search(ctx context.Context, query string) ([]models.Book, error) {
	var list []models.Book
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return list, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Book{}).
		Joins("LEFT JOIN book_authors ON book_authors.book_id = books.id").
		Joins("LEFT JOIN authors ON authors.id = book_authors.author_id")

	for _, t := range tokens {
		p := "%" + t + "%"
		q = q.Where(
			"(books.title ILIKE ? OR books.isbn ILIKE ? OR COALESCE(authors.first_name || ' ' || authors.last_name, '') ILIKE ?)",
			p, p, p,
		)
	}

	err := q.Distinct("books.*").
		Preload("Authors").
		Order("books.title ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return list, nil
}

// DecrementStock takes one copy off the shelf as a single conditional update,
// so two concurrent borrows can never drive the quantity below zero. Returns
// false when no copy was available.
func (r *bookRepository) DecrementStock(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND quantity > 0", id).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if result.Error != nil {
		return false, fmt.Errorf("decrement stock: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IncrementStock puts a copy back and returns the new quantity.
func (r *bookRepository) IncrementStock(ctx context.Context, id int64) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("increment stock: %w", result.Error)
	}

	var b models.Book
	if err := r.db.WithContext(ctx).Select("quantity").First(&b, id).Error; err != nil {
		return 0, err
	}
	return b.Quantity, nil
}

func (r *bookRepository) UpdateRatingStats(ctx context.Context, id int64, average *float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"rating_count":   count,
		}).Error
}

func (r *bookRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error
	return count, err
}

func (r *bookRepository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Where("quantity > 0").Count(&count).Error
	return count, err
}

func (r *bookRepository) FindLowStock(ctx context.Context, threshold int) ([]models.Book, error) {
	var list []models.Book
	err := r.db.WithContext(ctx).
		Where("quantity > 0 AND quantity <= ?", threshold).
		Order("quantity ASC").
		Find(&list).Error
	return list, err
}

func (r *bookRepository) FindOutOfStock(ctx context.Context) ([]models.Book, error) {
	var list []models.Book
	err := r.db.WithContext(ctx).
		Where("quantity <= 0").
		Order("title ASC").
		Find(&list).Error
	return list, err
}
