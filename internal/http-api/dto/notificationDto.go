package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// NotificationResponse DTO for responses
type NotificationResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Link      *string    `json:"link,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func FromNotificationModel(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Link:      n.Link,
		Read:      n.Read(),
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
