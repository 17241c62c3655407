package infra

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is the persistence model for accounts. Balance is stored as
// numeric(20,2); status as a short string.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Number    string          `gorm:"type:varchar(12);uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status    string          `gorm:"type:varchar(8);not null;default:'ACTIVE'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string { return "accounts" }

// Transaction is the persistence model for the append-only transaction log.
// Rows are never updated or deleted.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	FromAccountID *uuid.UUID      `gorm:"type:uuid;index"`
	ToAccountID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Kind          string          `gorm:"type:varchar(10);not null"`
	Description   string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// User is the persistence model for users.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	Role      string    `gorm:"type:varchar(10);not null;default:'CUSTOMER'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string { return "users" }

// AuditLog is the persistence model for audit entries.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Action    string    `gorm:"size:50;not null;index"`
	ActorID   uuid.UUID `gorm:"type:uuid;index"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName specifies the table name for the AuditLog model.
func (AuditLog) TableName() string { return "audit_logs" }

// Migrate creates or updates the schema for all persistence models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Account{}, &Transaction{}, &AuditLog{})
}
