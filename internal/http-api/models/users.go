package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                  string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role                string     `gorm:"default:'user';not null" json:"role"`    // only 2 roles: "user", "admin"
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ResetToken          *string    `gorm:"uniqueIndex" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (User) TableName() string {
	return "users"
}
