package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/http-api/handler"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"
	"libraryhub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	// Redis is optional: with no reachable instance the cache degrades to
	// a no-op and every read hits Postgres.
	bookCache, err := cache.NewBookCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, book cache disabled", "err", err)
		bookCache = nil
	} else {
		defer bookCache.Close()
	}

	smtpMailer := mailer.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.MailFrom, cfg.MailPerSecond,
		logger,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, notifRepo, smtpMailer, cfg, logger)
	bookService := service.NewBookService(bookRepo, catalogRepo, bookCache)
	loanService := service.NewLoanService(loanRepo, bookRepo, reservationRepo, notifRepo, smtpMailer, bookCache, cfg.LoanPeriod(), logger)
	overdueService := service.NewOverdueService(loanRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, bookCache)
	wishlistService := service.NewWishlistService(wishlistRepo, bookRepo)
	reservationService := service.NewReservationService(reservationRepo, bookRepo)
	notificationService := service.NewNotificationService(notifRepo)
	statsService := service.NewStatsService(bookRepo, loanRepo, userRepo, reviewRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	loanHandler := handler.NewLoanHandler(loanService, overdueService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	statsHandler := handler.NewStatsHandler(statsService, overdueService, cfg.LowStockThreshold)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(authService))

	books := authed.Group("/books")
	bookHandler.RegisterRoutes(books)
	reviewHandler.RegisterRoutes(books)
	bookHandler.RegisterCatalogRoutes(authed.Group("/catalog"))

	loanHandler.RegisterRoutes(authed.Group("/loans"))
	wishlistHandler.RegisterRoutes(authed.Group("/wishlist"))
	reservationHandler.RegisterRoutes(authed.Group("/reservations"))
	notificationHandler.RegisterRoutes(authed.Group("/notifications"))

	admin := authed.Group("/admin/stats")
	admin.Use(middleware.RequireAdmin())
	statsHandler.RegisterRoutes(admin)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
