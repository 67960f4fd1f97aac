package service

import (
	"context"
	"testing"

	"libraryhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestWishlistService_Add(t *testing.T) {
	ctx := context.Background()
	book := &models.Book{ID: 1, Title: "Designing Data-Intensive Applications"}

	t.Run("Success", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(book, nil).Once()
		wishlistRepo.On("Exists", mock.Anything, "user-1", int64(1)).Return(false, nil).Once()
		wishlistRepo.On("Add", mock.Anything, "user-1", int64(1)).Return(nil).Once()

		svc := NewWishlistService(wishlistRepo, bookRepo)
		assert.NoError(t, svc.Add(ctx, "user-1", 1))
		wishlistRepo.AssertExpectations(t)
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(book, nil).Once()
		wishlistRepo.On("Exists", mock.Anything, "user-1", int64(1)).Return(true, nil).Once()

		svc := NewWishlistService(wishlistRepo, bookRepo)
		err := svc.Add(ctx, "user-1", 1)

		assert.ErrorIs(t, err, ErrAlreadyInWishlist)
		wishlistRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownBook", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepo)
		bookRepo := new(MockBookRepo)

		bookRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound).Once()

		svc := NewWishlistService(wishlistRepo, bookRepo)
		err := svc.Add(ctx, "user-1", 99)

		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestWishlistService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepo)
		wishlistRepo.On("Remove", mock.Anything, "user-1", int64(1)).Return(true, nil).Once()

		svc := NewWishlistService(wishlistRepo, new(MockBookRepo))
		assert.NoError(t, svc.Remove(ctx, "user-1", 1))
	})

	t.Run("NotInWishlist", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepo)
		wishlistRepo.On("Remove", mock.Anything, "user-1", int64(1)).Return(false, nil).Once()

		svc := NewWishlistService(wishlistRepo, new(MockBookRepo))
		err := svc.Remove(ctx, "user-1", 1)

		assert.ErrorIs(t, err, ErrNotInWishlist)
	})
}
