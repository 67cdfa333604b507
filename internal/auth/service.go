package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abduss/storeit/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxPasswordLength = 72 // bcrypt limit
	maxFullNameLength = 128
)

// userStore abstracts the persistence layer.
type userStore interface {
	CreateUser(ctx context.Context, email, passwordHash, fullName string) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (User, error)
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	RevokeToken(ctx context.Context, userID uuid.UUID, tokenHash string) error
	ConsumeRefreshToken(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error)
}

// Service encapsulates authentication use cases.
type Service struct {
	store   userStore
	cfg     config.AuthConfig
	nowFunc func() time.Time
	parser  *jwt.Parser
}

// NewService creates a Service with dependencies.
func NewService(store userStore, cfg config.AuthConfig) *Service {
	s := &Service{
		store:   store,
		cfg:     cfg,
		nowFunc: time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc() }),
	)
	return s
}

// RegisterInput carries data for user registration.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult contains user and token information.
type AuthResult struct {
	User   User
	Tokens TokenPair
}

// UserClaims describes the validated identity extracted from an access token.
type UserClaims struct {
	UserID    uuid.UUID
	Email     string
	FullName  string
	IsAdmin   bool
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Register creates a new user, hashing the password and issuing tokens.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return AuthResult{}, err
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" || len(fullName) > maxFullNameLength {
		return AuthResult{}, ErrInvalidFullName
	}

	hashedPassword, err := hashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, strings.ToLower(strings.TrimSpace(input.Email)), hashedPassword, fullName)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return AuthResult{}, ErrEmailAlreadyExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	return result, nil
}

// Login authenticates credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a live refresh token for a new token pair. The presented
// token is consumed, so each refresh token works once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	hash := hashRefreshToken(refreshToken, s.cfg.RefreshTokenSecret)
	userID, err := s.store.ConsumeRefreshToken(ctx, hash, s.nowFunc())
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, fmt.Errorf("consume refresh token: %w", err)
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// CurrentUser loads the account behind a validated token.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return user.SafeUser(), nil
}

// SignOut revokes the given refresh token. An empty token is a no-op.
func (s *Service) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	hash := hashRefreshToken(refreshToken, s.cfg.RefreshTokenSecret)
	if err := s.store.RevokeToken(ctx, userID, hash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// AccessTokenTTL reports how long issued access tokens stay valid.
func (s *Service) AccessTokenTTL() time.Duration {
	return s.cfg.AccessTokenTTL
}

func hashPassword(password string, cost int) (string, error) {
	if len(password) > maxPasswordLength {
		return "", fmt.Errorf("password exceeds maximum length of %d characters", maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateCredentials(email, password string) error {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)
	if email == "" || len(password) < 8 || len(password) > maxPasswordLength {
		return ErrInvalidCredentials
	}
	return nil
}
