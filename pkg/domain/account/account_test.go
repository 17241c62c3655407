package account_test

import (
	"testing"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()
	acc, err := account.New().WithUserID(uuid.New()).Build()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, acc.ID)
	assert.Len(t, acc.Number, 12)
	assert.True(t, acc.Balance.IsZero())
	assert.Equal(t, account.StatusActive, acc.Status)
}

func TestBuildRequiresOwner(t *testing.T) {
	t.Parallel()
	_, err := account.New().Build()
	assert.Error(t, err)
}

func TestBuildRejectsNegativeBalance(t *testing.T) {
	t.Parallel()
	_, err := account.New().
		WithUserID(uuid.New()).
		WithBalance(decimal.NewFromInt(-1)).
		Build()
	assert.Error(t, err)
}

func TestCreditDebit(t *testing.T) {
	t.Parallel()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithBalance(decimal.NewFromInt(100)).
		Build()
	require.NoError(t, err)

	t.Run("credit increases balance", func(t *testing.T) {
		require.NoError(t, acc.Credit(decimal.NewFromFloat(25.50)))
		assert.True(t, acc.Balance.Equal(decimal.NewFromFloat(125.50)), acc.Balance.String())
	})

	t.Run("debit decreases balance", func(t *testing.T) {
		require.NoError(t, acc.Debit(decimal.NewFromFloat(25.50)))
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)), acc.Balance.String())
	})

	t.Run("debit of full balance is allowed", func(t *testing.T) {
		require.NoError(t, acc.Debit(decimal.NewFromInt(100)))
		assert.True(t, acc.Balance.IsZero())
	})

	t.Run("overdraw is rejected, not clamped", func(t *testing.T) {
		err := acc.Debit(decimal.NewFromFloat(0.01))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assert.True(t, acc.Balance.IsZero())
	})
}

func TestNonPositiveAmounts(t *testing.T) {
	t.Parallel()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithBalance(decimal.NewFromInt(10)).
		Build()
	require.NoError(t, err)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		assert.ErrorIs(t, acc.Credit(amount), account.ErrInvalidAmount)
		assert.ErrorIs(t, acc.Debit(amount), account.ErrInvalidAmount)
	}
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))
}

func TestStatusMachine(t *testing.T) {
	t.Parallel()

	build := func(t *testing.T, status account.Status) *account.Account {
		t.Helper()
		acc, err := account.New().
			WithUserID(uuid.New()).
			WithStatus(status).
			WithBalance(decimal.NewFromInt(50)).
			Build()
		require.NoError(t, err)
		return acc
	}

	t.Run("active and frozen are interchangeable", func(t *testing.T) {
		acc := build(t, account.StatusActive)
		require.NoError(t, acc.Freeze())
		assert.Equal(t, account.StatusFrozen, acc.Status)
		require.NoError(t, acc.Activate())
		assert.Equal(t, account.StatusActive, acc.Status)
	})

	t.Run("freeze is idempotent", func(t *testing.T) {
		acc := build(t, account.StatusFrozen)
		require.NoError(t, acc.Freeze())
		assert.Equal(t, account.StatusFrozen, acc.Status)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		acc := build(t, account.StatusActive)
		acc.Close()
		assert.ErrorIs(t, acc.Freeze(), account.ErrAccountClosed)
		assert.ErrorIs(t, acc.Activate(), account.ErrAccountClosed)
		assert.Equal(t, account.StatusClosed, acc.Status)
	})

	t.Run("frozen account rejects mutations", func(t *testing.T) {
		acc := build(t, account.StatusFrozen)
		assert.ErrorIs(t, acc.Credit(decimal.NewFromInt(1)), account.ErrAccountInactive)
		assert.ErrorIs(t, acc.Debit(decimal.NewFromInt(1)), account.ErrAccountInactive)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(50)))
	})

	t.Run("closed account rejects mutations", func(t *testing.T) {
		acc := build(t, account.StatusClosed)
		assert.ErrorIs(t, acc.Credit(decimal.NewFromInt(1)), account.ErrAccountInactive)
		assert.ErrorIs(t, acc.Debit(decimal.NewFromInt(1)), account.ErrAccountInactive)
	})
}

func TestTransactionConstructors(t *testing.T) {
	t.Parallel()
	from := uuid.New()
	to := uuid.New()
	amount := decimal.NewFromFloat(12.34)

	t.Run("deposit sets only destination", func(t *testing.T) {
		tx := account.NewDeposit(to, amount, "d")
		assert.Nil(t, tx.FromAccountID)
		require.NotNil(t, tx.ToAccountID)
		assert.Equal(t, to, *tx.ToAccountID)
		assert.Equal(t, account.KindDeposit, tx.Kind)
	})

	t.Run("withdrawal sets only source", func(t *testing.T) {
		tx := account.NewWithdrawal(from, amount, "w")
		require.NotNil(t, tx.FromAccountID)
		assert.Nil(t, tx.ToAccountID)
		assert.Equal(t, account.KindWithdrawal, tx.Kind)
	})

	t.Run("transfer sets both", func(t *testing.T) {
		tx := account.NewTransfer(from, to, amount, "t")
		require.NotNil(t, tx.FromAccountID)
		require.NotNil(t, tx.ToAccountID)
		assert.Equal(t, account.KindTransfer, tx.Kind)
	})
}
