package repository

import (
	"context"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

// CatalogRepository manages the catalog's reference data: categories,
// authors and publishers.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListAuthors(ctx context.Context) ([]models.Author, error)
	CreateAuthor(ctx context.Context, a *models.Author) error
	DeleteAuthor(ctx context.Context, id int64) error

	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	CreatePublisher(ctx context.Context, p *models.Publisher) error
	DeletePublisher(ctx context.Context, id int64) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *catalogRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

func (r *catalogRepository) ListAuthors(ctx context.Context) ([]models.Author, error) {
	var list []models.Author
	err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&list).Error
	return list, err
}

func (r *catalogRepository) CreateAuthor(ctx context.Context, a *models.Author) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *catalogRepository) DeleteAuthor(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Author{}, id).Error
}

func (r *catalogRepository) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	var list []models.Publisher
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *catalogRepository) CreatePublisher(ctx context.Context, p *models.Publisher) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *catalogRepository) DeletePublisher(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Publisher{}, id).Error
}
