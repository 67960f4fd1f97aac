package models

type Author struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name" gorm:"not null;index"`
}

func (Author) TableName() string {
	return "authors"
}
