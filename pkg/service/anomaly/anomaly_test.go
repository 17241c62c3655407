package anomaly_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/audit"
	"github.com/corebank/ledger/pkg/repository/repotest"
	"github.com/corebank/ledger/pkg/service/anomaly"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func seedHistory(store *repotest.Store, accountID uuid.UUID, amounts ...float64) {
	for _, a := range amounts {
		store.SeedTransaction(account.NewDeposit(accountID, decimal.NewFromFloat(a), "seed"))
	}
}

func screen(t *testing.T, store *repotest.Store, accountID uuid.UUID, amount float64) *anomaly.Report {
	t.Helper()
	s := anomaly.New(store.UoW(), 0, slog.Default())
	report, err := s.Screen(context.Background(), accountID, decimal.NewFromFloat(amount))
	require.NoError(t, err)
	return report
}

func TestInsufficientHistory(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 100, 100)

	report := screen(t, store, accountID, 1_000_000)
	assert.False(t, report.Sampled)
	assert.False(t, report.Flagged, "fewer than 3 samples never flags")
	assert.Equal(t, 2, report.Samples)
}

func TestZeroStdDevIsUnscored(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 100, 100, 100, 100)

	report := screen(t, store, accountID, 100)
	assert.True(t, report.Sampled)
	assert.False(t, report.Scored, "identical history cannot be scored")
	assert.False(t, report.Flagged)
}

func TestConstantHistoryFlagsDifferentAmount(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 100, 100, 100)

	report := screen(t, store, accountID, 100_000)
	assert.False(t, report.Scored, "no z-score exists with zero spread")
	assert.True(t, report.Flagged, "any amount off a constant history flags")
	assert.Contains(t, report.Reason, "constant historical amount")

	audits := store.Audits()
	require.NotEmpty(t, audits)
	assert.Equal(t, audit.ActionAnomalyFlagged, audits[len(audits)-1].Action)
}

func TestLargeDeviationFlagged(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 100, 110, 90, 105)

	report := screen(t, store, accountID, 100_000)
	require.True(t, report.Scored)
	assert.True(t, report.Flagged)
	assert.Greater(t, report.ZScore, 2.5)
	assert.Contains(t, report.Reason, "std devs from average")

	audits := store.Audits()
	require.NotEmpty(t, audits)
	assert.Equal(t, audit.ActionAnomalyFlagged, audits[len(audits)-1].Action)
}

func TestTypicalAmountNotFlagged(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 95, 100, 105, 110, 90)

	report := screen(t, store, accountID, 102)
	require.True(t, report.Scored)
	assert.False(t, report.Flagged)
	assert.Empty(t, store.Audits())
}

func TestNegativeDeviationFlagged(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 1000, 1010, 990, 1005, 995)

	report := screen(t, store, accountID, 1)
	require.True(t, report.Scored)
	assert.True(t, report.Flagged, "|z| is symmetric: far-below-mean flags too")
	assert.Less(t, report.ZScore, -2.5)
}

func TestScreeningIsSideEffectFree(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 95, 100, 105)

	before := len(store.Transactions())
	_ = screen(t, store, accountID, 100)
	assert.Equal(t, before, len(store.Transactions()), "screening appends no transactions")
}

func TestCustomThreshold(t *testing.T) {
	t.Parallel()
	store := repotest.NewStore()
	accountID := uuid.New()
	seedHistory(store, accountID, 95, 100, 105)

	strict := anomaly.New(store.UoW(), 1.0, slog.Default())
	report, err := strict.Screen(context.Background(), accountID, decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.True(t, report.Flagged, "threshold 1.0 flags mild deviations")

	lax := anomaly.New(store.UoW(), 100, slog.Default())
	report, err = lax.Screen(context.Background(), accountID, decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.False(t, report.Flagged)
}
