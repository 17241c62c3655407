package repository

import (
	"context"

	"github.com/corebank/ledger/infra"
	"github.com/corebank/ledger/pkg/domain/audit"
	"github.com/corebank/ledger/pkg/repository"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates an audit repository bound to the given session.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, e *audit.Entry) error {
	m := infra.AuditLog{
		ID:        e.ID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}
