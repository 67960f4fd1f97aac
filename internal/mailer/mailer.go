package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"
)

// Mailer sends the library's outbound emails. Delivery is best-effort: the
// error return feeds the caller's sent/failed tally and is never surfaced to
// end users.
type Mailer interface {
	SendReturnReminder(ctx context.Context, to, firstName, bookTitle string, daysRemaining int) error
	SendOverdueNotice(ctx context.Context, to, firstName, bookTitle string, daysOverdue int) error
	SendBookAvailable(ctx context.Context, to, firstName, bookTitle string) error
	SendWelcome(ctx context.Context, to, firstName string) error
	SendPasswordReset(ctx context.Context, to, firstName, token string) error
}

// SMTPMailer delivers mail over plain SMTP, paced by a rate limiter so a
// large overdue batch cannot flood the relay.
type SMTPMailer struct {
	addr    string
	from    string
	auth    smtp.Auth
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, perSecond float64, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr:    fmt.Sprintf("%s:%d", host, port),
		from:    from,
		auth:    auth,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}
}

func (m *SMTPMailer) SendReturnReminder(ctx context.Context, to, firstName, bookTitle string, daysRemaining int) error {
	subject := fmt.Sprintf("Reminder: %q is due back in %d day(s)", bookTitle, daysRemaining)
	body := fmt.Sprintf(
		"Hello %s,\n\nThe book %q you borrowed is due back in %d day(s).\nPlease return it on time to keep borrowing.\n\nThe Library",
		firstName, bookTitle, daysRemaining)
	return m.send(ctx, to, subject, body, "return_reminder")
}

func (m *SMTPMailer) SendOverdueNotice(ctx context.Context, to, firstName, bookTitle string, daysOverdue int) error {
	subject := fmt.Sprintf("Overdue: %q is %d day(s) late", bookTitle, daysOverdue)
	body := fmt.Sprintf(
		"Hello %s,\n\nThe book %q is now %d day(s) overdue.\nPlease return it as soon as possible; borrowing is blocked until you do.\n\nThe Library",
		firstName, bookTitle, daysOverdue)
	return m.send(ctx, to, subject, body, "overdue_notice")
}

func (m *SMTPMailer) SendBookAvailable(ctx context.Context, to, firstName, bookTitle string) error {
	subject := fmt.Sprintf("%q is available again", bookTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nGood news: the book %q you reserved is back in stock.\nIt is held on a first-come, first-served basis.\n\nThe Library",
		firstName, bookTitle)
	return m.send(ctx, to, subject, body, "book_available")
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, firstName string) error {
	subject := "Welcome to the Library!"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour account is ready. Browse the catalog, borrow books and leave reviews.\n\nThe Library",
		firstName)
	return m.send(ctx, to, subject, body, "welcome")
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, firstName, token string) error {
	subject := "Password reset request"
	body := fmt.Sprintf(
		"Hello %s,\n\nUse the token below to reset your password. It expires shortly.\n\n%s\n\nIf you did not request this, ignore this message.\n\nThe Library",
		firstName, token)
	return m.send(ctx, to, subject, body, "password_reset")
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body, kind string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		m.logger.Error("failed to send email", "kind", kind, "to", to, "err", err)
		return err
	}

	m.logger.Info("email sent", "kind", kind, "to", to)
	return nil
}
