// Package user provides registration and lookup of ledger users.
package user

import (
	"context"
	"log/slog"

	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a new user with a hashed password. Registering an email
// that already exists fails with user.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, password string) (u *user.User, err error) {
	logger := s.logger.With("email", email)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if existing, _ := users.GetByEmail(ctx, email); existing != nil {
			return user.ErrEmailTaken
		}
		u, err = user.NewUser(name, email, password, user.RoleCustomer)
		if err != nil {
			return err
		}
		return users.Create(ctx, u)
	})
	if err != nil {
		logger.Error("registration failed", "error", err)
		return nil, err
	}
	logger.Info("user registered", "userID", u.ID)
	return u, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return users.Get(ctx, id)
}
