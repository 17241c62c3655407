// Package audit holds the append-only audit trail entry written after
// committed ledger operations and anomaly flags.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Well-known audit actions.
const (
	ActionAccountCreated   = "ACCOUNT_CREATED"
	ActionAccountFrozen    = "ACCOUNT_FROZEN"
	ActionAccountActivated = "ACCOUNT_ACTIVATED"
	ActionAccountClosed    = "ACCOUNT_CLOSED"
	ActionDeposit          = "DEPOSIT"
	ActionWithdrawal       = "WITHDRAWAL"
	ActionTransfer         = "TRANSFER"
	ActionAnomalyFlagged   = "ANOMALY_FLAGGED"
)

// Entry is a single audit record. Entries are fire-and-forget from the
// ledger's perspective: a failed write is logged and never unwinds the
// operation that produced it.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created"`
}

// NewEntry creates an audit entry stamped with the current time.
func NewEntry(action string, actorID uuid.UUID, details string) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Action:    action,
		ActorID:   actorID,
		Details:   details,
		CreatedAt: time.Now(),
	}
}
