package service

import (
	"context"
	"errors"
	"strings"

	"libraryhub/internal/cache"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrBookNotFound = errors.New("book not found")

type BookService interface {
	GetAll(ctx context.Context, filters repository.BookFilters, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id int64, b *models.Book) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]models.Book, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListAuthors(ctx context.Context) ([]models.Author, error)
	CreateAuthor(ctx context.Context, firstName, lastName string) (*models.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error
	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	CreatePublisher(ctx context.Context, name string) (*models.Publisher, error)
	DeletePublisher(ctx context.Context, id int64) error
}

type bookService struct {
	bookRepo    repository.BookRepository
	catalogRepo repository.CatalogRepository
	cache       *cache.BookCache
}

func NewBookService(bookRepo repository.BookRepository, catalogRepo repository.CatalogRepository, bookCache *cache.BookCache) BookService {
	return &bookService{
		bookRepo:    bookRepo,
		catalogRepo: catalogRepo,
		cache:       bookCache,
	}
}

func (s *bookService) GetAll(ctx context.Context, filters repository.BookFilters, page, pageSize int) ([]models.Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookRepo.GetAll(ctx, filters, page, pageSize)
}

// GetByID serves book details read-through: cache first, database on a miss.
func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	if b, ok := s.cache.Get(ctx, id); ok {
		return b, nil
	}

	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	s.cache.Set(ctx, b)
	return b, nil
}

func (s *bookService) Create(ctx context.Context, b *models.Book) error {
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title is required")
	}
	if b.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	return s.bookRepo.Create(ctx, b)
}

func (s *bookService) Update(ctx context.Context, id int64, b *models.Book) error {
	existing, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if strings.TrimSpace(b.Title) != "" {
		existing.Title = b.Title
	}
	if b.ISBN != "" {
		existing.ISBN = b.ISBN
	}
	if b.Quantity >= 0 {
		existing.Quantity = b.Quantity
	}
	if b.UnitPrice > 0 {
		existing.UnitPrice = b.UnitPrice
	}
	if b.PublishedAt != nil {
		existing.PublishedAt = b.PublishedAt
	}
	if b.Description != nil {
		existing.Description = b.Description
	}
	if b.CoverURL != nil {
		existing.CoverURL = b.CoverURL
	}
	if b.PublisherID != 0 {
		existing.PublisherID = b.PublisherID
	}
	if b.CategoryID != 0 {
		existing.CategoryID = b.CategoryID
	}

	if err := s.bookRepo.Update(ctx, id, existing); err != nil {
		return err
	}
	if b.Authors != nil {
		if err := s.bookRepo.ReplaceAuthors(ctx, id, b.Authors); err != nil {
			return err
		}
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *bookService) Search(ctx context.Context, query string) ([]models.Book, error) {
	return s.bookRepo.Search(ctx, query)
}

func (s *bookService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.catalogRepo.ListCategories(ctx)
}

func (s *bookService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	c := &models.Category{Name: name}
	if err := s.catalogRepo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *bookService) DeleteCategory(ctx context.Context, id int64) error {
	return s.catalogRepo.DeleteCategory(ctx, id)
}

func (s *bookService) ListAuthors(ctx context.Context) ([]models.Author, error) {
	return s.catalogRepo.ListAuthors(ctx)
}

func (s *bookService) CreateAuthor(ctx context.Context, firstName, lastName string) (*models.Author, error) {
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return nil, errors.New("last name is required")
	}
	a := &models.Author{FirstName: strings.TrimSpace(firstName), LastName: lastName}
	if err := s.catalogRepo.CreateAuthor(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *bookService) DeleteAuthor(ctx context.Context, id int64) error {
	return s.catalogRepo.DeleteAuthor(ctx, id)
}

func (s *bookService) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	return s.catalogRepo.ListPublishers(ctx)
}

func (s *bookService) CreatePublisher(ctx context.Context, name string) (*models.Publisher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	p := &models.Publisher{Name: name}
	if err := s.catalogRepo.CreatePublisher(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *bookService) DeletePublisher(ctx context.Context, id int64) error {
	return s.catalogRepo.DeletePublisher(ctx, id)
}
