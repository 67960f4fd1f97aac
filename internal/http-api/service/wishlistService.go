package service

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyInWishlist = errors.New("book already in wishlist")
	ErrNotInWishlist     = errors.New("book not in wishlist")
)

type WishlistService interface {
	Add(ctx context.Context, userID string, bookID int64) error
	Remove(ctx context.Context, userID string, bookID int64) error
	List(ctx context.Context, userID string) ([]models.WishlistEntry, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	bookRepo     repository.BookRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, bookRepo repository.BookRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		bookRepo:     bookRepo,
	}
}

func (s *wishlistService) Add(ctx context.Context, userID string, bookID int64) error {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	exists, err := s.wishlistRepo.Exists(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInWishlist
	}

	return s.wishlistRepo.Add(ctx, userID, bookID)
}

func (s *wishlistService) Remove(ctx context.Context, userID string, bookID int64) error {
	removed, err := s.wishlistRepo.Remove(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotInWishlist
	}
	return nil
}

func (s *wishlistService) List(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	return s.wishlistRepo.List(ctx, userID)
}
