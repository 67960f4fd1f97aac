// overdue_sync runs the daily loan sweep: return reminders, overdue notices
// and loan status reconciliation. With -once it performs a single sweep and
// exits, which is how the cron deployment invokes it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryhub/database"
	"libraryhub/internal/config"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/mailer"
	"libraryhub/internal/worker"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	interval := flag.Duration("interval", 24*time.Hour, "time between sweeps")
	workers := flag.Int("workers", 4, "concurrent email senders")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	var logger *slog.Logger
	if cfg.LogFormat == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	smtpMailer := mailer.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.MailFrom, cfg.MailPerSecond,
		logger,
	)

	notifier := worker.NewLoanNotifier(
		repository.NewLoanRepository(db),
		repository.NewNotificationRepository(db),
		smtpMailer,
		cfg.ReminderDays,
		*workers,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		report, err := notifier.Run(ctx)
		if err != nil {
			logger.Error("sweep failed", "err", err)
			os.Exit(1)
		}
		// cron captures stdout, so emit the tally as a JSON line
		out, _ := json.Marshal(report)
		fmt.Println(string(out))
		return
	}

	notifier.Start(ctx, *interval)
}
