package repository

import (
	"context"

	"github.com/corebank/ledger/infra"
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository bound to the
// given session. The table is append-only; there is no update or delete.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := infra.Transaction{
		ID:            tx.ID,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		Amount:        tx.Amount,
		Kind:          string(tx.Kind),
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	var models []infra.Transaction
	err := r.db.WithContext(ctx).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*account.Transaction, 0, len(models))
	for i := range models {
		m := &models[i]
		result = append(result, account.NewTransactionFromData(
			m.ID, m.FromAccountID, m.ToAccountID,
			m.Amount, account.Kind(m.Kind), m.Description, m.CreatedAt,
		))
	}
	return result, nil
}

func (r *transactionRepository) AmountsByAccount(ctx context.Context, accountID uuid.UUID) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&infra.Transaction{}).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("created_at DESC").
		Pluck("amount", &amounts).Error
	if err != nil {
		return nil, err
	}
	return amounts, nil
}
