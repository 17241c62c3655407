package account

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an operation amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when an account has insufficient funds for a withdrawal or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive is returned when a balance mutation is attempted on a frozen or closed account.
	ErrAccountInactive = errors.New("account is not active")

	// ErrAccountClosed is returned when a status transition is attempted on a closed account.
	ErrAccountClosed = errors.New("account is closed")

	// ErrSameAccount is returned when a transfer is attempted from an account to itself.
	ErrSameAccount = errors.New("cannot transfer to same account")
	// ErrNilAccount is returned when a nil account is provided to a transfer or other operation.
	ErrNilAccount = errors.New("nil account")
)

// Status is the lifecycle state of an account.
//
// Active and Frozen are interchangeable through administrative action;
// Closed is terminal and never transitions again.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusFrozen Status = "FROZEN"
	StatusClosed Status = "CLOSED"
)

// Account represents a monetary account, encapsulating its balance and lifecycle state.
// It acts as an aggregate root, ensuring all state changes are consistent and valid.
//
// Invariants:
// - An account must always have a valid owner (UserID).
// - The balance is a two-decimal-scale decimal and can never be negative.
// - Once Closed, the status never transitions again.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created"`
	UpdatedAt time.Time       `json:"updated"`
}

// Builder provides a fluent API for constructing Account instances, ensuring
// that only valid accounts are constructed.
type Builder struct {
	id        uuid.UUID
	userID    uuid.UUID
	number    string
	balance   decimal.Decimal
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Builder with sensible defaults: a fresh UUID, a generated
// account number, zero balance and Active status.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		number:    newAccountNumber(),
		balance:   decimal.Zero,
		status:    StatusActive,
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owner for the account being built. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithNumber overrides the generated account number. This is primarily for
// hydrating an existing account from a data store.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithBalance sets the initial balance. This should only be used for hydrating
// an existing account from a data store or for test setup.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithStatus sets the lifecycle status. This is primarily for hydration.
func (b *Builder) WithStatus(status Status) *Builder {
	b.status = status
	return b
}

// WithCreatedAt sets the creation timestamp. This is primarily for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. This is primarily for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build finalizes the construction of the Account. It validates all invariants,
// such as a non-nil UserID and a non-negative balance, before returning the
// new Account instance.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if b.balance.IsNegative() {
		return nil, errors.New("balance cannot be negative")
	}
	switch b.status {
	case StatusActive, StatusFrozen, StatusClosed:
	default:
		return nil, fmt.Errorf("unknown account status %q", b.status)
	}
	return &Account{
		ID:        b.id,
		UserID:    b.userID,
		Number:    b.number,
		Balance:   b.balance.Round(2),
		Status:    b.status,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// newAccountNumber generates a 12-digit display identifier.
func newAccountNumber() string {
	limit := big.NewInt(1_000_000_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		return fmt.Sprintf("%012d", time.Now().UnixNano()%1_000_000_000_000)
	}
	return fmt.Sprintf("%012d", n.Int64())
}

// IsActive reports whether the account accepts balance mutations.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

func (a *Account) validateActive() error {
	if !a.IsActive() {
		return ErrAccountInactive
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDeposit checks all business invariants for a deposit operation.
func (a *Account) ValidateDeposit(amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return a.validateActive()
}

// ValidateWithdraw checks all business invariants for a withdrawal.
// Invariants enforced:
//   - Withdrawal amount must be positive.
//   - The account must be Active.
//   - Cannot withdraw more than the current balance.
func (a *Account) ValidateWithdraw(amount decimal.Decimal) error {
	if err := a.ValidateDeposit(amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// Credit increases the balance by amount after validating invariants.
// Callers hold the account's lock and persist the result before releasing it.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := a.ValidateDeposit(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount).Round(2)
	a.UpdatedAt = time.Now()
	return nil
}

// Debit decreases the balance by amount after validating invariants.
// The balance never goes negative; illegal debits are rejected, not clamped.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := a.ValidateWithdraw(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount).Round(2)
	a.UpdatedAt = time.Now()
	return nil
}

// Freeze transitions the account to Frozen. Freezing a frozen account is a
// no-op; a closed account rejects the transition.
func (a *Account) Freeze() error {
	if a.Status == StatusClosed {
		return ErrAccountClosed
	}
	a.Status = StatusFrozen
	a.UpdatedAt = time.Now()
	return nil
}

// Activate transitions the account back to Active. Activating an active
// account is a no-op; a closed account rejects the transition.
func (a *Account) Activate() error {
	if a.Status == StatusClosed {
		return ErrAccountClosed
	}
	a.Status = StatusActive
	a.UpdatedAt = time.Now()
	return nil
}

// Close transitions the account to Closed. The transition is one-way and
// idempotent.
func (a *Account) Close() {
	a.Status = StatusClosed
	a.UpdatedAt = time.Now()
}
