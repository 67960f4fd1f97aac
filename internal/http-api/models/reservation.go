package models

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusNotified  ReservationStatus = "notified"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a queued claim on an out-of-stock book. Pending holders are
// moved to notified when a copy comes back, fulfilled when they borrow it.
type Reservation struct {
	ID         int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string            `gorm:"type:uuid;not null;index" json:"user_id"`
	BookID     int64             `gorm:"not null;index" json:"book_id"`
	ReservedAt time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"reserved_at"`
	NotifiedAt *time.Time        `json:"notified_at,omitempty"`
	Status     ReservationStatus `gorm:"size:50;default:'pending';not null" json:"status"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

// Open reports whether the reservation still waits on a copy.
func (r *Reservation) Open() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusNotified
}

func (Reservation) TableName() string {
	return "reservations"
}
