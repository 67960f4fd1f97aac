package models

import "time"

type WishlistEntry struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string    `gorm:"type:uuid;not null;uniqueIndex:uniq_wishlist" json:"user_id"`
	BookID  int64     `gorm:"not null;uniqueIndex:uniq_wishlist" json:"book_id"`
	AddedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"added_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}
