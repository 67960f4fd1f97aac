package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/mailer"
)

// Report tallies one run of the daily loan sweep.
type Report struct {
	RemindersSent   int64 `json:"reminders_sent"`
	OverdueSent     int64 `json:"overdue_sent"`
	Failed          int64 `json:"failed"`
	StatusesUpdated int64 `json:"statuses_updated"`
}

// LoanNotifier runs the daily sweep over unreturned loans: it emails
// return reminders and overdue notices, mirrors them as in-app
// notifications, and reconciles each loan's stored status with the clock.
type LoanNotifier struct {
	loanRepo  repository.LoanRepository
	notifRepo repository.NotificationRepository
	mailer    mailer.Mailer
	logger    *slog.Logger

	reminderDays int
	workerCount  int
}

func NewLoanNotifier(
	loanRepo repository.LoanRepository,
	notifRepo repository.NotificationRepository,
	m mailer.Mailer,
	reminderDays int,
	workerCount int,
	logger *slog.Logger,
) *LoanNotifier {
	if workerCount < 1 {
		workerCount = 4
	}
	return &LoanNotifier{
		loanRepo:     loanRepo,
		notifRepo:    notifRepo,
		mailer:       m,
		logger:       logger,
		reminderDays: reminderDays,
		workerCount:  workerCount,
	}
}

// Run executes one sweep. Email delivery is fanned out over a worker pool;
// individual failures are tallied, never fatal.
func (n *LoanNotifier) Run(ctx context.Context) (Report, error) {
	now := time.Now()

	loans, err := n.loanRepo.FindUnreturned(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list unreturned loans: %w", err)
	}

	var remindersSent, overdueSent, failed atomic.Int64

	pool := NewPool(n.workerCount, n.logger)
	pool.Start()

	for i := range loans {
		loan := loans[i]
		if loan.User == nil || loan.Book == nil {
			continue
		}

		days := loan.DaysRemainingAt(now)
		switch {
		case loan.StatusAt(now) == models.LoanStatusOverdue:
			pool.Submit(func(taskCtx context.Context) error {
				if err := n.sendOverdue(taskCtx, &loan, -days); err != nil {
					failed.Add(1)
					return err
				}
				overdueSent.Add(1)
				return nil
			})
		case days == n.reminderDays:
			pool.Submit(func(taskCtx context.Context) error {
				if err := n.sendReminder(taskCtx, &loan, days); err != nil {
					failed.Add(1)
					return err
				}
				remindersSent.Add(1)
				return nil
			})
		}
	}

	pool.Wait()

	updated, err := n.reconcileStatuses(ctx, loans, now)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		RemindersSent:   remindersSent.Load(),
		OverdueSent:     overdueSent.Load(),
		Failed:          failed.Load(),
		StatusesUpdated: updated,
	}
	n.logger.Info("loan sweep completed",
		"reminders_sent", report.RemindersSent,
		"overdue_sent", report.OverdueSent,
		"failed", report.Failed,
		"statuses_updated", report.StatusesUpdated,
	)
	return report, nil
}

// Start runs a sweep immediately, then once every interval until the
// context is cancelled.
func (n *LoanNotifier) Start(ctx context.Context, interval time.Duration) {
	if _, err := n.Run(ctx); err != nil {
		n.logger.Error("loan sweep failed", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := n.Run(ctx); err != nil {
				n.logger.Error("loan sweep failed", "err", err)
			}
		case <-ctx.Done():
			n.logger.Info("loan notifier stopped")
			return
		}
	}
}

func (n *LoanNotifier) sendReminder(ctx context.Context, loan *models.Loan, daysRemaining int) error {
	if err := n.mailer.SendReturnReminder(ctx, loan.User.Email, loan.User.FirstName, loan.Book.Title, daysRemaining); err != nil {
		return fmt.Errorf("reminder for loan %d: %w", loan.ID, err)
	}
	n.createInApp(ctx, loan, models.NotificationTypeReminder,
		"Return reminder",
		fmt.Sprintf("%q is due back in %d day(s).", loan.Book.Title, daysRemaining))
	return nil
}

func (n *LoanNotifier) sendOverdue(ctx context.Context, loan *models.Loan, daysOverdue int) error {
	if err := n.mailer.SendOverdueNotice(ctx, loan.User.Email, loan.User.FirstName, loan.Book.Title, daysOverdue); err != nil {
		return fmt.Errorf("overdue notice for loan %d: %w", loan.ID, err)
	}
	n.createInApp(ctx, loan, models.NotificationTypeOverdue,
		"Overdue loan",
		fmt.Sprintf("%q is %d day(s) overdue. Please return it.", loan.Book.Title, daysOverdue))
	return nil
}

// createInApp mirrors the email as an in-app notification. Failures here
// are logged but do not count against the mail tally.
func (n *LoanNotifier) createInApp(ctx context.Context, loan *models.Loan, kind, title, message string) {
	var link *string
	if loan.BookID != nil {
		l := fmt.Sprintf("/books/%d", *loan.BookID)
		link = &l
	}
	notif := &models.Notification{
		UserID:  loan.UserID,
		Title:   title,
		Message: message,
		Type:    kind,
		Link:    link,
	}
	if err := n.notifRepo.Create(ctx, notif); err != nil {
		n.logger.Error("failed to create in-app notification", "loan_id", loan.ID, "err", err)
	}
}

// reconcileStatuses flips stored loan statuses that have drifted from
// their time-derived value, so list endpoints can filter on the column.
func (n *LoanNotifier) reconcileStatuses(ctx context.Context, loans []models.Loan, now time.Time) (int64, error) {
	var updated int64
	for i := range loans {
		want := loans[i].StatusAt(now)
		if loans[i].Status == want {
			continue
		}
		if err := n.loanRepo.UpdateStatus(ctx, loans[i].ID, want); err != nil {
			return updated, fmt.Errorf("update status for loan %d: %w", loans[i].ID, err)
		}
		updated++
	}
	return updated, nil
}
