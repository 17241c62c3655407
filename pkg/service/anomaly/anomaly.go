// Package anomaly screens proposed transaction amounts against an account's
// history. The screener is strictly advisory: it takes no locks, mutates
// nothing, and its verdict never blocks an operation.
package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/corebank/ledger/pkg/domain/audit"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultThreshold is the |z| above which a proposed amount is flagged.
const DefaultThreshold = 2.5

// MinSamples is the smallest history size the screener will score. Below it
// the result is "insufficient data" by policy, not an error.
const MinSamples = 3

// Report is the ephemeral result of screening one proposed amount. It has no
// identity and is not persisted by the core.
type Report struct {
	Sampled bool    `json:"sampled"` // false when history is too short
	Scored  bool    `json:"scored"`  // false when stddev is zero
	Flagged bool    `json:"flagged"`
	ZScore  float64 `json:"z_score"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Samples int     `json:"samples"`
	Reason  string  `json:"reason,omitempty"`
}

// Screener scores proposed amounts against historical ones.
type Screener struct {
	uow       repository.UnitOfWork
	threshold float64
	logger    *slog.Logger
}

// New creates a Screener. A non-positive threshold falls back to
// DefaultThreshold.
func New(uow repository.UnitOfWork, threshold float64, logger *slog.Logger) *Screener {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Screener{uow: uow, threshold: threshold, logger: logger}
}

// Screen reads the account's full transaction history and scores the proposed
// amount against it.
//
// With fewer than MinSamples historical transactions the report is unsampled.
// The standard deviation uses the population divisor (n, not n-1); changing
// it would shift the flagging threshold. When every historical amount is
// identical (stddev zero) no z-score exists: a matching amount passes, any
// other amount flags.
//
// The history read takes no lock and may observe a slightly stale view; the
// signal is advisory so this is acceptable.
func (s *Screener) Screen(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*Report, error) {
	txns, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	amounts, err := txns.AmountsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	report := &Report{Samples: len(amounts)}
	if len(amounts) < MinSamples {
		return report, nil
	}
	report.Sampled = true

	mean, stddev := meanStdDev(amounts)
	report.Mean = mean
	report.StdDev = stddev
	proposed, _ := amount.Float64()

	// With zero spread no z-score exists. Any amount off the constant
	// history is still an infinite deviation and flags; a matching amount
	// does not.
	if stddev == 0 {
		if proposed != mean {
			report.Flagged = true
			report.Reason = fmt.Sprintf(
				"transaction $%.2f deviates from constant historical amount $%.2f",
				proposed, mean,
			)
			s.logger.Warn("anomalous amount flagged",
				"accountID", accountID, "amount", amount, "mean", mean)
			s.recordAudit(ctx, accountID, report.Reason)
		}
		return report, nil
	}
	report.Scored = true

	report.ZScore = (proposed - mean) / stddev
	if math.Abs(report.ZScore) > s.threshold {
		report.Flagged = true
		report.Reason = fmt.Sprintf(
			"transaction $%.2f deviates %.1f std devs from average $%.2f",
			proposed, math.Abs(report.ZScore), mean,
		)
		s.logger.Warn("anomalous amount flagged",
			"accountID", accountID, "amount", amount, "zScore", report.ZScore)
		s.recordAudit(ctx, accountID, report.Reason)
	}
	return report, nil
}

// meanStdDev computes the sample mean and the population standard deviation
// (divisor = n) of the amounts.
func meanStdDev(amounts []decimal.Decimal) (mean, stddev float64) {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	n := int64(len(amounts))
	meanDec := sum.Div(decimal.NewFromInt(n)).Round(2)

	variance := decimal.Zero
	for _, a := range amounts {
		diff := a.Sub(meanDec)
		variance = variance.Add(diff.Mul(diff))
	}
	varF, _ := variance.Div(decimal.NewFromInt(n)).Round(2).Float64()
	mean, _ = meanDec.Float64()
	return mean, math.Sqrt(varF)
}

// recordAudit emits the flag to the audit trail. Failures are logged and
// swallowed: flagging never blocks the screened operation.
func (s *Screener) recordAudit(ctx context.Context, accountID uuid.UUID, reason string) {
	repo, err := s.uow.AuditRepository()
	if err == nil {
		err = repo.Create(ctx, audit.NewEntry(audit.ActionAnomalyFlagged, accountID, reason))
	}
	if err != nil {
		s.logger.Warn("audit record failed", "action", audit.ActionAnomalyFlagged, "error", err)
	}
}
