package service

import (
	"context"
	"errors"
	"math"

	"libraryhub/internal/cache"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewService interface {
	// CreateOrUpdate upserts the user's single review for a book and
	// refreshes the book's denormalized rating stats.
	CreateOrUpdate(ctx context.Context, userID string, bookID int64, rating int, comment *string) (*models.Review, error)
	Delete(ctx context.Context, userID string, bookID int64) error
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error)
	GetOwn(ctx context.Context, userID string, bookID int64) (*models.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	cache      *cache.BookCache
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository, bookCache *cache.BookCache) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		cache:      bookCache,
	}
}

func (s *reviewService) CreateOrUpdate(ctx context.Context, userID string, bookID int64, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	review, err := s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	switch {
	case err == nil:
		// second submission updates the existing review instead of
		// stacking a duplicate vote
		review.Rating = rating
		review.Comment = comment
		if err := s.reviewRepo.Update(ctx, review); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = &models.Review{
			UserID:  userID,
			BookID:  bookID,
			Rating:  rating,
			Comment: comment,
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.refreshRatingStats(ctx, bookID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID string, bookID int64) error {
	if err := s.reviewRepo.Delete(ctx, userID, bookID); err != nil {
		return ErrReviewNotFound
	}
	return s.refreshRatingStats(ctx, bookID)
}

func (s *reviewService) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.reviewRepo.GetByBook(ctx, bookID, page, pageSize)
}

func (s *reviewService) GetOwn(ctx context.Context, userID string, bookID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// refreshRatingStats recomputes the book's cached average and count from the
// reviews table. With no reviews left, the average goes back to null rather
// than zero.
func (s *reviewService) refreshRatingStats(ctx context.Context, bookID int64) error {
	count, err := s.reviewRepo.CountForBook(ctx, bookID)
	if err != nil {
		return err
	}

	var average *float64
	if count > 0 {
		avg, err := s.reviewRepo.AverageForBook(ctx, bookID)
		if err != nil {
			return err
		}
		rounded := math.Round(avg*100) / 100
		average = &rounded
	}

	if err := s.bookRepo.UpdateRatingStats(ctx, bookID, average, int(count)); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, bookID)
	return nil
}
