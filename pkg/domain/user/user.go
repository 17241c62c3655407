package user

import (
	"errors"
	"time"

	"github.com/corebank/ledger/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match or the
	// caller lacks the required role.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrEmailTaken is returned when registering with an email that already
	// belongs to a user.
	ErrEmailTaken = errors.New("email already registered")
)

// Role controls access to administrative operations (freeze/activate/close).
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// User represents a user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// NewUser creates a new User with a hashed password and current timestamps.
func NewUser(name, email, password string, role Role) (*User, error) {
	if name == "" {
		return nil, errors.New("name cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, errors.New("invalid email address")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleCustomer
	}
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// NewUserFromData creates a User from raw data (used for DB hydration).
func NewUserFromData(
	id uuid.UUID,
	name, email, password string,
	role Role,
	created, updated time.Time,
) *User {
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// VerifyPassword reports whether the plain password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.Password)
}

// IsAdmin reports whether the user may perform administrative actions.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
