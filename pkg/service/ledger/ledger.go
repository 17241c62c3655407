// Package ledger applies single-account balance mutations under the ledger's
// invariants: amounts are positive, only Active accounts mutate, balances
// never go negative, and every committed mutation is persisted before the
// account's lock is released.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/audit"
	"github.com/corebank/ledger/pkg/locks"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account lifecycle and single-account
// balance operations. Multi-account movement lives in the transfer package.
type Service struct {
	uow    repository.UnitOfWork
	locks  *locks.Registry
	logger *slog.Logger
}

// New creates a ledger Service with the provided dependencies. The lock
// registry must be the same instance handed to the transfer coordinator.
func New(uow repository.UnitOfWork, registry *locks.Registry, logger *slog.Logger) *Service {
	return &Service{uow: uow, locks: registry, logger: logger}
}

// CreateAccount creates a new Active account with zero balance for the user.
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID) (a *account.Account, err error) {
	logger := s.logger.With("userID", userID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err := users.Get(ctx, userID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = account.New().WithUserID(userID).Build()
		if err != nil {
			return err
		}
		return repo.Create(ctx, a)
	})
	if err != nil {
		logger.Error("account creation failed", "error", err)
		return nil, err
	}
	logger.Info("account created", "accountID", a.ID, "number", a.Number)
	s.recordAudit(ctx, audit.ActionAccountCreated, userID,
		fmt.Sprintf("created account %s", a.Number))
	return a, nil
}

// Deposit increases the account balance by amount and appends a Deposit
// record. It returns the updated balance.
//
// Fails with account.ErrInvalidAmount, account.ErrAccountNotFound or
// account.ErrAccountInactive; persistence failures are returned wrapped and
// roll back the whole operation.
func (s *Service) Deposit(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
) (balance decimal.Decimal, err error) {
	return s.mutate(ctx, accountID, amount, audit.ActionDeposit,
		func(a *account.Account) (*account.Transaction, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return account.NewDeposit(a.ID, amount, "Deposit to account"), nil
		})
}

// Withdraw decreases the account balance by amount and appends a Withdrawal
// record. It returns the updated balance.
//
// Same preconditions as Deposit, plus account.ErrInsufficientFunds when the
// balance does not cover the amount.
func (s *Service) Withdraw(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
) (balance decimal.Decimal, err error) {
	return s.mutate(ctx, accountID, amount, audit.ActionWithdrawal,
		func(a *account.Account) (*account.Transaction, error) {
			if err := a.Debit(amount); err != nil {
				return nil, err
			}
			return account.NewWithdrawal(a.ID, amount, "Withdrawal from account"), nil
		})
}

// mutate runs a single-account balance change under the account's lock:
// load, apply, persist and append the record inside one transaction boundary.
// The lock is held until the boundary has committed or rolled back, so no
// dirty in-memory state survives past the critical section.
func (s *Service) mutate(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
	action string,
	apply func(a *account.Account) (*account.Transaction, error),
) (balance decimal.Decimal, err error) {
	logger := s.logger.With("accountID", accountID, "amount", amount, "action", action)

	// Cheap rejection before taking the lock; apply re-validates.
	if !amount.IsPositive() {
		return decimal.Zero, account.ErrInvalidAmount
	}

	lock := s.locks.Get(accountID)
	lock.Lock()
	defer lock.Unlock()

	var acct *account.Account
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		txn, err := apply(acct)
		if err != nil {
			return err
		}
		if err = accounts.Update(ctx, acct); err != nil {
			return fmt.Errorf("persisting balance: %w", err)
		}
		txns, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if err = txns.Create(ctx, txn); err != nil {
			return fmt.Errorf("appending transaction record: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("balance mutation failed", "error", err)
		return decimal.Zero, err
	}

	logger.Info("balance mutation committed", "balance", acct.Balance)
	s.recordAudit(ctx, action, acct.UserID,
		fmt.Sprintf("%s of $%s on account %s", action, amount.StringFixed(2), acct.Number))
	return acct.Balance, nil
}

// Freeze transitions the account to Frozen. Freezing an already frozen
// account is a no-op; a closed account rejects with account.ErrAccountClosed.
func (s *Service) Freeze(ctx context.Context, accountID, adminID uuid.UUID) error {
	return s.transition(ctx, accountID, adminID, audit.ActionAccountFrozen,
		func(a *account.Account) error { return a.Freeze() })
}

// Activate transitions the account back to Active. Idempotent; a closed
// account rejects with account.ErrAccountClosed.
func (s *Service) Activate(ctx context.Context, accountID, adminID uuid.UUID) error {
	return s.transition(ctx, accountID, adminID, audit.ActionAccountActivated,
		func(a *account.Account) error { return a.Activate() })
}

// Close transitions the account to Closed. The transition is terminal.
func (s *Service) Close(ctx context.Context, accountID, adminID uuid.UUID) error {
	return s.transition(ctx, accountID, adminID, audit.ActionAccountClosed,
		func(a *account.Account) error { a.Close(); return nil })
}

func (s *Service) transition(
	ctx context.Context,
	accountID, adminID uuid.UUID,
	action string,
	apply func(a *account.Account) error,
) error {
	logger := s.logger.With("accountID", accountID, "action", action)

	lock := s.locks.Get(accountID)
	lock.Lock()
	defer lock.Unlock()

	var number string
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if err = apply(acct); err != nil {
			return err
		}
		number = acct.Number
		return accounts.Update(ctx, acct)
	})
	if err != nil {
		logger.Error("status transition failed", "error", err)
		return err
	}
	logger.Info("status transition committed")
	s.recordAudit(ctx, action, adminID, fmt.Sprintf("%s on account %s", action, number))
	return nil
}

// GetAccount returns the account with the given id.
func (s *Service) GetAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, accountID)
}

// GetUserAccounts lists all accounts owned by the user.
func (s *Service) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByUser(ctx, userID)
}

// GetHistory returns the account's transactions, most recent first.
func (s *Service) GetHistory(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	if _, err = accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	txns, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txns.ListByAccount(ctx, accountID)
}

// recordAudit appends an audit entry after a committed operation. Audit
// failures are logged and swallowed: they never unwind the commit.
func (s *Service) recordAudit(ctx context.Context, action string, actorID uuid.UUID, details string) {
	repo, err := s.uow.AuditRepository()
	if err == nil {
		err = repo.Create(ctx, audit.NewEntry(action, actorID, details))
	}
	if err != nil {
		s.logger.Warn("audit record failed", "action", action, "error", err)
	}
}
