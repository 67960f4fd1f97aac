package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatusAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("ActiveBeforeDue", func(t *testing.T) {
		l := Loan{DueAt: now.Add(48 * time.Hour)}
		assert.Equal(t, LoanStatusActive, l.StatusAt(now))
	})

	t.Run("OverdueAfterDue", func(t *testing.T) {
		l := Loan{DueAt: now.Add(-time.Minute)}
		assert.Equal(t, LoanStatusOverdue, l.StatusAt(now))
	})

	t.Run("ReturnedWinsEvenPastDue", func(t *testing.T) {
		returned := now.Add(-time.Hour)
		l := Loan{DueAt: now.Add(-72 * time.Hour), ReturnedAt: &returned}
		assert.Equal(t, LoanStatusReturned, l.StatusAt(now))
	})

	t.Run("Idempotent", func(t *testing.T) {
		l := Loan{DueAt: now.Add(-24 * time.Hour)}
		first := l.StatusAt(now)
		l.Status = first
		assert.Equal(t, first, l.StatusAt(now))
	})
}

func TestLoanDaysRemainingAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	t.Run("WholeDaysUntilDue", func(t *testing.T) {
		l := Loan{DueAt: now.Add(14 * 24 * time.Hour)}
		assert.Equal(t, 14, l.DaysRemainingAt(now))
	})

	t.Run("DueTodayIsZero", func(t *testing.T) {
		l := Loan{DueAt: now.Add(5 * time.Hour)}
		assert.Equal(t, 0, l.DaysRemainingAt(now))
	})

	t.Run("NegativeOnceOverdue", func(t *testing.T) {
		l := Loan{DueAt: now.Add(-24 * time.Hour)}
		assert.Equal(t, -1, l.DaysRemainingAt(now))
	})

	t.Run("ZeroAfterReturn", func(t *testing.T) {
		returned := now.Add(-time.Hour)
		l := Loan{DueAt: now.Add(-10 * 24 * time.Hour), ReturnedAt: &returned}
		assert.Equal(t, 0, l.DaysRemainingAt(now))
	})

	t.Run("CalendarDaysNotElapsedHours", func(t *testing.T) {
		// due 23:00 tomorrow, now 09:30: one calendar day even though
		// more than 24 hours remain
		due := time.Date(2026, 3, 11, 23, 0, 0, 0, time.UTC)
		l := Loan{DueAt: due}
		assert.Equal(t, 1, l.DaysRemainingAt(now))
	})
}

func TestLoanIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	l := Loan{DueAt: now.Add(-time.Second)}
	assert.True(t, l.IsOverdue(now))

	returned := now
	l.ReturnedAt = &returned
	assert.False(t, l.IsOverdue(now))
}
