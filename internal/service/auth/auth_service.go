package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"activities-be/internal/domain"
	"activities-be/internal/repository"
	"activities-be/internal/service"
	"activities-be/pkg/errors"
	"activities-be/pkg/logger"
)

// tokenTTL is how long issued tokens stay valid. Authors re-login weekly.
const tokenTTL = 7 * 24 * time.Hour

// Service implements the AuthService interface with password credentials and
// HS256 bearer tokens.
type Service struct {
	users     repository.UserRepository
	jwtSecret []byte
	logger    *logger.Logger
}

// NewService creates a new auth service
func NewService(users repository.UserRepository, jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// Register creates a new user with a hashed password and signs them in.
func (s *Service) Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if len(password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters", nil)
	}

	exists, err := s.users.Exists(ctx, username, email)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check user existence")
		return nil, errors.NewInternalError("failed to register user", err)
	}
	if exists {
		return nil, errors.NewValidationError("username or email already in use", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		return nil, errors.NewInternalError("failed to register user", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.WithError(err).Error("Failed to create user")
		return nil, errors.NewInternalError("failed to register user", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return &domain.AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a bearer token. Unknown identifier
// and wrong password return the same error so login probes learn nothing.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*domain.AuthResult, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)

	user, err := s.users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up user")
		return nil, errors.NewInternalError("failed to log in", err)
	}
	if user == nil {
		return nil, errors.NewAuthenticationError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewAuthenticationError("invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return &domain.AuthResult{Token: token, User: user}, nil
}

// ValidateToken parses and verifies a signed token and resolves its subject.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewAuthenticationError("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.NewAuthenticationError("invalid token claims")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve token subject")
		return nil, errors.NewInternalError("failed to validate token", err)
	}
	if user == nil {
		return nil, errors.NewAuthenticationError("user no longer exists")
	}
	return user, nil
}

func (s *Service) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign token")
		return "", errors.NewInternalError("failed to issue token", err)
	}
	return signed, nil
}
