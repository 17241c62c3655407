package repository

import "context"

// UnitOfWork is the single atomicity boundary for persistence. All writes of
// one ledger operation happen inside one Do call: if the function returns an
// error, everything staged inside it is rolled back and no partial state is
// visible to other operations.
//
// Repository accessors return handles bound to the current transaction
// session, so every repository used inside Do shares the same boundary.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The provided UnitOfWork
	// hands out repositories bound to that transaction. A non-nil error from
	// fn rolls everything back and is returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
	AuditRepository() (AuditRepository, error)
}
