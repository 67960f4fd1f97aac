package models

import "time"

// Notification types
const (
	NotificationTypeLoanReturned  = "loan_returned"
	NotificationTypeReminder      = "return_reminder"
	NotificationTypeOverdue       = "overdue_notice"
	NotificationTypeBookAvailable = "book_available"
	NotificationTypeWelcome       = "welcome"
)

type Notification struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string     `gorm:"not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"not null" json:"type"`
	Link      *string    `json:"link,omitempty"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (n *Notification) Read() bool {
	return n.ReadAt != nil
}

func (Notification) TableName() string {
	return "notifications"
}
