package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" default:"postgres://localhost:5432/libraryhub?sslmode=disable"`

	// Authentication
	JWTSecret       string        `env:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" default:"168h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL" default:"1h"`

	// Redis Cache
	RedisURL      string        `env:"REDIS_URL" default:"redis://localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" default:"1h"`

	// Borrowing rules
	LoanPeriodDays    int `env:"LOAN_PERIOD_DAYS" default:"14"`
	ReminderDays      int `env:"REMINDER_DAYS" default:"3"`
	LowStockThreshold int `env:"LOW_STOCK_THRESHOLD" default:"3"`

	// Outbound email
	SMTPHost      string  `env:"SMTP_HOST" default:"localhost"`
	SMTPPort      int     `env:"SMTP_PORT" default:"587"`
	SMTPUsername  string  `env:"SMTP_USERNAME"`
	SMTPPassword  string  `env:"SMTP_PASSWORD"`
	MailFrom      string  `env:"MAIL_FROM" default:"noreply@libraryhub.local"`
	MailPerSecond float64 `env:"MAIL_PER_SECOND" default:"1"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"debug"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from project root
	if err := godotenv.Load(".env"); err != nil {
		// If .env file doesn't exist, that's OK - we can still use system env vars
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", "postgres://localhost:5432/libraryhub?sslmode=disable"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RefreshTokenTTL, "REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.ResetTokenTTL, "RESET_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.CacheTTL, "CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	// Borrowing rules
	if err := loadEnvInt(&config.LoanPeriodDays, "LOAN_PERIOD_DAYS", 14); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.ReminderDays, "REMINDER_DAYS", 3); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.LowStockThreshold, "LOW_STOCK_THRESHOLD", 3); err != nil {
		return nil, err
	}

	// Email
	if err := loadEnvString(&config.SMTPHost, "SMTP_HOST", "localhost"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SMTPPort, "SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPUsername, "SMTP_USERNAME", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPPassword, "SMTP_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MailFrom, "MAIL_FROM", "noreply@libraryhub.local"); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.MailPerSecond, "MAIL_PER_SECOND", 1); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000"}); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		// Trim whitespace from each element
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// JWT secret should be at least 32 characters for security
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if c.LoanPeriodDays < 1 {
		errors = append(errors, "LOAN_PERIOD_DAYS must be at least 1")
	}
	if c.ReminderDays < 0 || c.ReminderDays >= c.LoanPeriodDays {
		errors = append(errors, "REMINDER_DAYS must be non-negative and shorter than LOAN_PERIOD_DAYS")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// LoanPeriod returns the borrowing period as a duration.
func (c *Config) LoanPeriod() time.Duration {
	return time.Duration(c.LoanPeriodDays) * 24 * time.Hour
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
