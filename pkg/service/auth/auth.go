// Package auth issues and validates JWT bearer tokens for API callers.
// Credential storage itself lives in the user repository; the ledger core
// never sees passwords.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service authenticates users and issues signed tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth Service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies the email/password pair and returns the user with a signed
// token. Unknown emails and wrong passwords both map to
// user.ErrUserUnauthorized so callers cannot probe for registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	logger := s.logger.With("email", email)
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, "", err
	}
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		logger.Warn("login failed", "error", err)
		return nil, "", user.ErrUserUnauthorized
	}
	if !u.VerifyPassword(password) {
		logger.Warn("login failed: bad password")
		return nil, "", user.ErrUserUnauthorized
	}
	token, err := s.GenerateToken(u)
	if err != nil {
		return nil, "", err
	}
	logger.Info("login successful", "userID", u.ID)
	return u, token, nil
}

// GenerateToken signs a token carrying the user id and role.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  u.ID.String(),
		"role": string(u.Role),
		"exp":  time.Now().Add(s.cfg.Expiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseToken validates a signed token and returns the user id and role.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, user.Role, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", user.ErrUserUnauthorized
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", user.ErrUserUnauthorized
	}
	role, _ := claims["role"].(string)
	return id, user.Role(role), nil
}

// CurrentUserID extracts the authenticated user id from a parsed fiber token.
func (s *Service) CurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	sub, _ := claims["sub"].(string)
	return uuid.Parse(sub)
}
