// Package transfer moves money between two accounts as a single atomic unit:
// either both balances change and exactly one Transfer record is appended, or
// nothing changes.
package transfer

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

// Coordinator orchestrates two-account atomic mutation on top of the same
// lock registry and transaction boundary the ledger service uses.
type Coordinator struct {
	uow    repository.UnitOfWork
	locks  *locks.Registry
	logger *slog.Logger
}

// New creates a transfer Coordinator. The lock registry must be the same
// instance handed to the ledger service.
func New(uow repository.UnitOfWork, registry *locks.Registry, logger *slog.Logger) *Coordinator {
	return &Coordinator{uow: uow, locks: registry, logger: logger}
}

// Transfer moves amount from one active account to another.
//
// Locks on the two accounts are always acquired in ascending id order, never
// in caller-supplied order, so opposite-direction transfers between the same
// pair cannot deadlock. Both balance writes and the single Transfer record
// share one transaction boundary: any failure after partial work rolls
// everything back, and callers only ever observe the pre-transfer or the
// fully applied post-transfer state.
//
// The sum of the two balances is unchanged by a successful transfer.
func (c *Coordinator) Transfer(
	ctx context.Context,
	fromID, toID uuid.UUID,
	amount decimal.Decimal,
) (txn *account.Transaction, err error) {
	logger := c.logger.With("fromID", fromID, "toID", toID, "amount", amount)

	if !amount.IsPositive() {
		return nil, account.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, account.ErrSameAccount
	}

	unlock := c.locks.LockPair(fromID, toID)
	defer unlock()

	var actorID uuid.UUID
	err = c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		from, err := accounts.Get(ctx, fromID)
		if err != nil {
			return err
		}
		to, err := accounts.Get(ctx, toID)
		if err != nil {
			return err
		}
		if !to.IsActive() {
			return account.ErrAccountInactive
		}
		// Debit validates amount, source status and sufficient funds.
		if err = from.Debit(amount); err != nil {
			return err
		}
		if err = to.Credit(amount); err != nil {
			return err
		}
		if err = accounts.Update(ctx, from); err != nil {
			return fmt.Errorf("persisting source balance: %w", err)
		}
		if err = accounts.Update(ctx, to); err != nil {
			return fmt.Errorf("persisting destination balance: %w", err)
		}
		txns, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txn = account.NewTransfer(fromID, toID, amount,
			fmt.Sprintf("Transfer from %s to %s", from.Number, to.Number))
		if err = txns.Create(ctx, txn); err != nil {
			return fmt.Errorf("appending transfer record: %w", err)
		}
		actorID = from.UserID
		return nil
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, err
	}

	logger.Info("transfer committed", "transactionID", txn.ID)
	c.recordAudit(ctx, actorID,
		fmt.Sprintf("transferred $%s from %s to %s", amount.StringFixed(2), fromID, toID))
	return txn, nil
}

func (c *Coordinator) recordAudit(ctx context.Context, actorID uuid.UUID, details string) {
	repo, err := c.uow.AuditRepository()
	if err == nil {
		err = repo.Create(ctx, audit.NewEntry(audit.ActionTransfer, actorID, details))
	}
	if err != nil {
		c.logger.Warn("audit record failed", "action", audit.ActionTransfer, "error", err)
	}
}
