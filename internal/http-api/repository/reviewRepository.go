package repository

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, userID string, bookID int64) error
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Review, error)
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error)
	AverageForBook(ctx context.Context, bookID int64) (float64, error)
	CountForBook(ctx context.Context, bookID int64) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	GlobalAverage(ctx context.Context) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, userID string, bookID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("review not found")
	}
	return nil
}

// GetByUserAndBook retrieves a user's review for a specific book
func (r *reviewRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Preload("User").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByBook retrieves all reviews for a book with pagination, newest first
func (r *reviewRepository) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("book_id = ?", bookID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// AverageForBook calculates the average rating for a book
func (r *reviewRepository) AverageForBook(ctx context.Context, bookID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("book_id = ?", bookID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

func (r *reviewRepository) CountForBook(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

func (r *reviewRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error
	return count, err
}

func (r *reviewRepository) GlobalAverage(ctx context.Context) (float64, error) {
	var avg struct {
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Scan(&avg).Error
	return avg.Average, err
}
