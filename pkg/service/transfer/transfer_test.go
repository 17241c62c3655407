package transfer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/locks"
	"github.com/corebank/ledger/pkg/repository/repotest"
	"github.com/corebank/ledger/pkg/service/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newCoordinator(store *repotest.Store) *transfer.Coordinator {
	return transfer.New(store.UoW(), locks.NewRegistry(), slog.Default())
}

func seedAccount(t *testing.T, store *repotest.Store, balance int64, status account.Status) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithBalance(decimal.NewFromInt(balance)).
		WithStatus(status).
		Build()
	require.NoError(t, err)
	store.SeedAccount(acc)
	return acc
}

func total(store *repotest.Store, ids ...uuid.UUID) decimal.Decimal {
	sum := decimal.Zero
	for _, id := range ids {
		sum = sum.Add(store.Account(id).Balance)
	}
	return sum
}

func TestTransfer(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	coord := newCoordinator(store)
	from := seedAccount(t, store, 100, account.StatusActive)
	to := seedAccount(t, store, 20, account.StatusActive)

	txn, err := coord.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromFloat(30.50))
	require.NoError(t, err)

	assert.True(t, store.Account(from.ID).Balance.Equal(decimal.NewFromFloat(69.50)))
	assert.True(t, store.Account(to.ID).Balance.Equal(decimal.NewFromFloat(50.50)))
	assert.True(t, total(store, from.ID, to.ID).Equal(decimal.NewFromInt(120)), "conservation")

	require.Len(t, store.Transactions(), 1, "exactly one transfer record")
	assert.Equal(t, account.KindTransfer, txn.Kind)
	require.NotNil(t, txn.FromAccountID)
	require.NotNil(t, txn.ToAccountID)
	assert.Equal(t, from.ID, *txn.FromAccountID)
	assert.Equal(t, to.ID, *txn.ToAccountID)
}

func TestTransferErrors(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	coord := newCoordinator(store)
	from := seedAccount(t, store, 100, account.StatusActive)
	to := seedAccount(t, store, 20, account.StatusActive)
	frozen := seedAccount(t, store, 100, account.StatusFrozen)

	ten := decimal.NewFromInt(10)
	tests := []struct {
		name   string
		fromID uuid.UUID
		toID   uuid.UUID
		amount decimal.Decimal
		want   error
	}{
		{"non-positive amount", from.ID, to.ID, decimal.Zero, account.ErrInvalidAmount},
		{"same account", from.ID, from.ID, ten, account.ErrSameAccount},
		{"missing source", uuid.New(), to.ID, ten, account.ErrAccountNotFound},
		{"missing destination", from.ID, uuid.New(), ten, account.ErrAccountNotFound},
		{"frozen source", frozen.ID, to.ID, ten, account.ErrAccountInactive},
		{"frozen destination", from.ID, frozen.ID, ten, account.ErrAccountInactive},
		{"insufficient funds", from.ID, to.ID, decimal.NewFromInt(1000), account.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coord.Transfer(context.Background(), tt.fromID, tt.toID, tt.amount)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.True(t, store.Account(from.ID).Balance.Equal(decimal.NewFromInt(100)), "balances untouched")
	assert.True(t, store.Account(to.ID).Balance.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, store.Transactions())
}

func TestTransferRollsBackOnPersistenceFailure(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	coord := newCoordinator(store)
	from := seedAccount(t, store, 100, account.StatusActive)
	to := seedAccount(t, store, 20, account.StatusActive)

	store.FailTransactionCreate = errors.New("log unavailable")
	_, err := coord.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(30))
	require.Error(t, err)

	assert.True(t, store.Account(from.ID).Balance.Equal(decimal.NewFromInt(100)),
		"staged debit discarded")
	assert.True(t, store.Account(to.ID).Balance.Equal(decimal.NewFromInt(20)),
		"staged credit discarded")
	assert.Empty(t, store.Transactions())
}

// Opposite-direction transfers between the same pair must not deadlock and
// must conserve the combined balance.
func TestConcurrentOppositeTransfers(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	coord := newCoordinator(store)
	a := seedAccount(t, store, 10_000, account.StatusActive)
	b := seedAccount(t, store, 10_000, account.StatusActive)

	const workers = 16
	const transfersPerWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		fromID, toID := a.ID, b.ID
		if i%2 == 1 {
			fromID, toID = b.ID, a.ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < transfersPerWorker; j++ {
				amount := decimal.NewFromInt(int64(j%7 + 1))
				// Insufficient funds is a legal outcome under contention.
				if _, err := coord.Transfer(context.Background(), fromID, toID, amount); err != nil {
					require.ErrorIs(t, err, account.ErrInsufficientFunds)
				}
			}
		}()
	}
	wg.Wait()

	assert.True(t, total(store, a.ID, b.ID).Equal(decimal.NewFromInt(20_000)),
		"total conserved across %d concurrent transfers", workers*transfersPerWorker)
	assert.False(t, store.Account(a.ID).Balance.IsNegative())
	assert.False(t, store.Account(b.ID).Balance.IsNegative())
}
