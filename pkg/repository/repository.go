// Package repository defines the collaborator interfaces the ledger core is
// written against. Implementations live under infra; tests use in-memory
// fakes. The core never touches a database handle directly.
package repository

import (
	"context"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/audit"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	// Get returns the account with the given id, or account.ErrAccountNotFound.
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByNumber(ctx context.Context, number string) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	// Update overwrites the stored balance and status of the account.
	Update(ctx context.Context, a *account.Account) error
}

// TransactionRepository defines the interface for the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	// ListByAccount returns the account's transactions, most recent first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error)
	// AmountsByAccount returns only the amounts of the account's history,
	// most recent first. Used by the anomaly screener.
	AmountsByAccount(ctx context.Context, accountID uuid.UUID) ([]decimal.Decimal, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

// AuditRepository persists audit entries. Writes are fire-and-forget from the
// ledger's perspective; failures must not abort a committed operation.
type AuditRepository interface {
	Create(ctx context.Context, e *audit.Entry) error
}
