package service

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notifRepo: notifRepo}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if unreadOnly {
		return s.notifRepo.GetUnreadByUser(ctx, userID, limit)
	}
	return s.notifRepo.GetByUser(ctx, userID, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notifRepo.CountUnreadByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID int64) error {
	found, err := s.notifRepo.MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}
