package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger transaction.
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
	KindTransfer   Kind = "TRANSFER"
)

// Transaction is an immutable record of a completed balance mutation.
// It is append-only: once created it is never mutated or deleted.
//
// Exactly one of FromAccountID/ToAccountID is set for deposits and
// withdrawals; both are set for transfers.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	FromAccountID *uuid.UUID      `json:"from_account_id,omitempty"`
	ToAccountID   *uuid.UUID      `json:"to_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          Kind            `json:"kind"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created"`
}

// NewDeposit creates a Deposit record crediting the given account.
func NewDeposit(accountID uuid.UUID, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		ToAccountID: &accountID,
		Amount:      amount,
		Kind:        KindDeposit,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// NewWithdrawal creates a Withdrawal record debiting the given account.
func NewWithdrawal(accountID uuid.UUID, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		FromAccountID: &accountID,
		Amount:        amount,
		Kind:          KindWithdrawal,
		Description:   description,
		CreatedAt:     time.Now(),
	}
}

// NewTransfer creates a single Transfer record moving amount between two accounts.
func NewTransfer(fromID, toID uuid.UUID, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		FromAccountID: &fromID,
		ToAccountID:   &toID,
		Amount:        amount,
		Kind:          KindTransfer,
		Description:   description,
		CreatedAt:     time.Now(),
	}
}

// NewTransactionFromData creates a Transaction from raw data (used for DB
// hydration or test fixtures). This bypasses invariants and should only be
// used for repository hydration or tests.
func NewTransactionFromData(
	id uuid.UUID,
	fromID, toID *uuid.UUID,
	amount decimal.Decimal,
	kind Kind,
	description string,
	created time.Time,
) *Transaction {
	return &Transaction{
		ID:            id,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Kind:          kind,
		Description:   description,
		CreatedAt:     created,
	}
}
