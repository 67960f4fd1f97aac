package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/mailer"
	"libraryhub/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrSamePassword       = errors.New("new password must differ from the current one")
)

// Claims is the decoded identity carried by an access token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(email, password string) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(token, newPassword string) error
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	notifRepo        repository.NotificationRepository
	mailer           mailer.Mailer
	logger           *slog.Logger
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	resetTokenTTL    time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	notifRepo repository.NotificationRepository,
	m mailer.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifRepo:        notifRepo,
		mailer:           m,
		logger:           logger,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,  // 15 minutes
		refreshTokenTTL:  cfg.RefreshTokenTTL, // 7 days
		resetTokenTTL:    cfg.ResetTokenTTL,
	}
}

// Register creates a new user account and sends the welcome email.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	// Check if email exists
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashedPassword,
		Role:      "user",
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Welcome mail and in-app notification are best-effort
	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcome(mailCtx, user.Email, user.FirstName); err != nil {
			s.logger.Error("failed to send welcome email", "user_id", user.ID, "err", err)
		}
		notif := &models.Notification{
			UserID:  user.ID,
			Title:   "Welcome!",
			Message: "Your library account is ready. Happy reading!",
			Type:    models.NotificationTypeWelcome,
		}
		if err := s.notifRepo.Create(mailCtx, notif); err != nil {
			s.logger.Error("failed to create welcome notification", "user_id", user.ID, "err", err)
		}
	}()

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(email, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		// User not found: dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(), // Simple UUID as refresh token
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		s.refreshTokenRepo.Delete(refreshToken.ID)
		return "", ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(refreshToken.UserID)
	if err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := mapClaims["user_id"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: userID, Email: email, Role: role}, nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every refresh token the user holds.
func (s *authService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := auth.VerifyPassword(user.Password, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	if newPassword == currentPassword {
		return ErrSamePassword
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	return s.refreshTokenRepo.DeleteForUser(userID)
}

// RequestPasswordReset issues a single-use reset token and mails it to the
// user. An unknown email is treated as success so the endpoint cannot be
// used to enumerate accounts.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	token := uuid.New().String()
	expiresAt := time.Now().Add(s.resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FirstName, token); err != nil {
		s.logger.Error("failed to send password reset email", "user_id", user.ID, "err", err)
		return err
	}
	return nil
}

func (s *authService) ConfirmPasswordReset(token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		return ErrInvalidToken
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	return s.refreshTokenRepo.DeleteForUser(user.ID)
}
