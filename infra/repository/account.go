// Package repository provides the gorm-backed implementations of the
// collaborator interfaces in pkg/repository.
package repository

import (
	"context"
	"errors"

	"github.com/corebank/ledger/infra"
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to the given session.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m infra.Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return toDomainAccount(&m)
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m infra.Account
	if err := r.db.WithContext(ctx).First(&m, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return toDomainAccount(&m)
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var models []infra.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		a, err := toDomainAccount(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	return r.db.WithContext(ctx).Create(toAccountModel(a)).Error
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	return r.db.WithContext(ctx).
		Model(&infra.Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"balance":    a.Balance,
			"status":     string(a.Status),
			"updated_at": a.UpdatedAt,
		}).Error
}

func toAccountModel(a *account.Account) *infra.Account {
	return &infra.Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Number:    a.Number,
		Balance:   a.Balance,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toDomainAccount(m *infra.Account) (*account.Account, error) {
	return account.New().
		WithID(m.ID).
		WithUserID(m.UserID).
		WithNumber(m.Number).
		WithBalance(m.Balance).
		WithStatus(account.Status(m.Status)).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}
