package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type WishlistRepository interface {
	Add(ctx context.Context, userID string, bookID int64) error
	Remove(ctx context.Context, userID string, bookID int64) (bool, error)
	List(ctx context.Context, userID string) ([]models.WishlistEntry, error)
	Exists(ctx context.Context, userID string, bookID int64) (bool, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, userID string, bookID int64) error {
	entry := &models.WishlistEntry{
		UserID: userID,
		BookID: bookID,
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

// Remove deletes the entry and reports whether one existed.
func (r *wishlistRepository) Remove(ctx context.Context, userID string, bookID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.WishlistEntry{})
	if result.Error != nil {
		return false, fmt.Errorf("remove from wishlist: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *wishlistRepository) List(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return entries, nil
}

func (r *wishlistRepository) Exists(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
