package models

import "time"

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusOverdue  LoanStatus = "overdue"
	LoanStatusReturned LoanStatus = "returned"
)

// Loan links a user and a book with borrow/due/return dates. Status is a
// derived cache of (DueAt, ReturnedAt, now); StatusAt is the source of truth
// and the stored column is refreshed by the daily batch pass.
type Loan struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     string     `json:"user_id" gorm:"type:uuid;index"`
	BookID     *int64     `json:"book_id" gorm:"index"` // nullable: deleting a book keeps its loan history
	BorrowedAt time.Time  `json:"borrowed_at" gorm:"not null"`
	DueAt      time.Time  `json:"due_at" gorm:"not null;index"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     LoanStatus `json:"status" gorm:"size:50;default:'active';not null"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

// StatusAt derives the loan status from its dates alone. Returned is
// terminal; re-applying the function never changes the answer for the same
// instant.
func (l *Loan) StatusAt(now time.Time) LoanStatus {
	if l.ReturnedAt != nil {
		return LoanStatusReturned
	}
	if l.DueAt.Before(now) {
		return LoanStatusOverdue
	}
	return LoanStatusActive
}

// IsOverdue reports whether the loan is past due with no return recorded.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.StatusAt(now) == LoanStatusOverdue
}

// DaysRemainingAt returns whole calendar days until the due date: negative
// once overdue, 0 after the book has been returned.
func (l *Loan) DaysRemainingAt(now time.Time) int {
	if l.ReturnedAt != nil {
		return 0
	}
	return daysBetween(now, l.DueAt)
}

func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func (Loan) TableName() string {
	return "loans"
}
