package repository

import (
	"context"
	"errors"

	"github.com/corebank/ledger/infra"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository bound to the given session.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var m infra.User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var m infra.User
	if err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	m := infra.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func toDomainUser(m *infra.User) *user.User {
	return user.NewUserFromData(
		m.ID, m.Name, m.Email, m.Password,
		user.Role(m.Role), m.CreatedAt, m.UpdatedAt,
	)
}
