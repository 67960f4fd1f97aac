package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoanRepo implements only the methods the sweep touches; the embedded
// interface panics on anything else, which is what we want in a test.
type stubLoanRepo struct {
	repository.LoanRepository

	mu      sync.Mutex
	loans   []models.Loan
	updated map[int64]models.LoanStatus
}

func (s *stubLoanRepo) FindUnreturned(ctx context.Context) ([]models.Loan, error) {
	return s.loans, nil
}

func (s *stubLoanRepo) UpdateStatus(ctx context.Context, id int64, status models.LoanStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updated == nil {
		s.updated = make(map[int64]models.LoanStatus)
	}
	s.updated[id] = status
	return nil
}

type stubNotifRepo struct {
	repository.NotificationRepository

	mu      sync.Mutex
	created []models.Notification
}

func (s *stubNotifRepo) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *n)
	return nil
}

// stubMailer counts sends and fails for the configured recipients.
type stubMailer struct {
	mu        sync.Mutex
	failFor   map[string]bool
	reminders []string
	overdues  []string
}

func (s *stubMailer) SendReturnReminder(ctx context.Context, to, firstName, bookTitle string, daysRemaining int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[to] {
		return errors.New("smtp unavailable")
	}
	s.reminders = append(s.reminders, to)
	return nil
}

func (s *stubMailer) SendOverdueNotice(ctx context.Context, to, firstName, bookTitle string, daysOverdue int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[to] {
		return errors.New("smtp unavailable")
	}
	s.overdues = append(s.overdues, to)
	return nil
}

func (s *stubMailer) SendBookAvailable(ctx context.Context, to, firstName, bookTitle string) error {
	return nil
}

func (s *stubMailer) SendWelcome(ctx context.Context, to, firstName string) error {
	return nil
}

func (s *stubMailer) SendPasswordReset(ctx context.Context, to, firstName, token string) error {
	return nil
}

func makeLoan(id int64, email string, dueIn time.Duration, status models.LoanStatus) models.Loan {
	bookID := id * 100
	return models.Loan{
		ID:     id,
		UserID: email,
		BookID: &bookID,
		DueAt:  time.Now().Add(dueIn),
		Status: status,
		User:   &models.User{ID: email, Email: email, FirstName: "Reader"},
		Book:   &models.Book{ID: bookID, Title: "Some Book"},
	}
}

func TestLoanNotifier_Run(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("TalliesRemindersOverdueAndFailures", func(t *testing.T) {
		reminderDue := 3 * 24 * time.Hour // lands exactly reminderDays out

		loanRepo := &stubLoanRepo{loans: []models.Loan{
			makeLoan(1, "ontime@example.com", reminderDue, models.LoanStatusActive),
			makeLoan(2, "late@example.com", -48*time.Hour, models.LoanStatusActive),
			makeLoan(3, "broken@example.com", -24*time.Hour, models.LoanStatusActive),
			makeLoan(4, "fine@example.com", 10*24*time.Hour, models.LoanStatusActive),
		}}
		notifRepo := &stubNotifRepo{}
		m := &stubMailer{failFor: map[string]bool{"broken@example.com": true}}

		n := NewLoanNotifier(loanRepo, notifRepo, m, 3, 2, logger)
		report, err := n.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(1), report.RemindersSent)
		assert.Equal(t, int64(1), report.OverdueSent)
		assert.Equal(t, int64(1), report.Failed)

		// loans 2 and 3 were past due but still marked active
		assert.Equal(t, int64(2), report.StatusesUpdated)
		assert.Equal(t, models.LoanStatusOverdue, loanRepo.updated[2])
		assert.Equal(t, models.LoanStatusOverdue, loanRepo.updated[3])

		// the failed email left no in-app notification for loan 3
		for _, created := range notifRepo.created {
			assert.NotEqual(t, "broken@example.com", created.UserID)
		}
	})

	t.Run("NothingToDo", func(t *testing.T) {
		loanRepo := &stubLoanRepo{loans: []models.Loan{
			makeLoan(1, "fine@example.com", 10*24*time.Hour, models.LoanStatusActive),
		}}
		notifRepo := &stubNotifRepo{}
		m := &stubMailer{}

		n := NewLoanNotifier(loanRepo, notifRepo, m, 3, 2, logger)
		report, err := n.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, Report{}, report)
		assert.Empty(t, m.reminders)
		assert.Empty(t, notifRepo.created)
	})
}
