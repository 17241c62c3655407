// Package repotest provides an in-memory implementation of the repository
// interfaces for service tests. Its UnitOfWork gives real transaction
// semantics: mutations staged inside Do are discarded when the function
// returns an error, so rollback behavior can be asserted without a database.
package repotest

import (
	"context"
	"sync"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/audit"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the in-memory backing state. Error fields, when set, are returned
// by the corresponding write so failure paths can be exercised.
type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]account.Account
	users    map[uuid.UUID]user.User
	txns     []account.Transaction
	audits   []audit.Entry

	FailAccountUpdate     error
	FailTransactionCreate error
	FailAudit             error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]account.Account),
		users:    make(map[uuid.UUID]user.User),
	}
}

// UoW returns a UnitOfWork over this store.
func (s *Store) UoW() repository.UnitOfWork {
	return &uow{store: s}
}

// SeedAccount stores a copy of the account.
func (s *Store) SeedAccount(a *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = *a
}

// SeedUser stores a copy of the user.
func (s *Store) SeedUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// SeedTransaction appends a copy of the transaction to the log.
func (s *Store) SeedTransaction(tx *account.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, *tx)
}

// Account returns a copy of the stored account, or nil.
func (s *Store) Account(id uuid.UUID) *account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

// Transactions returns a copy of the transaction log in append order.
func (s *Store) Transactions() []account.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]account.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Audits returns a copy of the audit log in append order.
func (s *Store) Audits() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Entry, len(s.audits))
	copy(out, s.audits)
	return out
}

type uow struct {
	store *Store
	inTx  bool
}

// Do serializes transactions on the store mutex, snapshots the state, runs
// fn, and restores the snapshot when fn fails.
func (u *uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make(map[uuid.UUID]account.Account, len(s.accounts))
	for k, v := range s.accounts {
		accounts[k] = v
	}
	users := make(map[uuid.UUID]user.User, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	txns := len(s.txns)
	audits := len(s.audits)

	if err := fn(&uow{store: s, inTx: true}); err != nil {
		s.accounts = accounts
		s.users = users
		s.txns = s.txns[:txns]
		s.audits = s.audits[:audits]
		return err
	}
	return nil
}

func (u *uow) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{u}, nil
}

func (u *uow) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{u}, nil
}

func (u *uow) UserRepository() (repository.UserRepository, error) {
	return &userRepo{u}, nil
}

func (u *uow) AuditRepository() (repository.AuditRepository, error) {
	return &auditRepo{u}, nil
}

// lock acquires the store mutex for repositories used outside Do; inside Do
// the transaction already holds it.
func (u *uow) lock() func() {
	if u.inTx {
		return func() {}
	}
	u.store.mu.Lock()
	return u.store.mu.Unlock
}

type accountRepo struct{ u *uow }

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	defer r.u.lock()()
	a, ok := r.u.store.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := a
	return &cp, nil
}

func (r *accountRepo) GetByNumber(_ context.Context, number string) (*account.Account, error) {
	defer r.u.lock()()
	for _, a := range r.u.store.accounts {
		if a.Number == number {
			cp := a
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *accountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*account.Account, error) {
	defer r.u.lock()()
	var out []*account.Account
	for _, a := range r.u.store.accounts {
		if a.UserID == userID {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *accountRepo) Create(_ context.Context, a *account.Account) error {
	defer r.u.lock()()
	r.u.store.accounts[a.ID] = *a
	return nil
}

func (r *accountRepo) Update(_ context.Context, a *account.Account) error {
	defer r.u.lock()()
	if err := r.u.store.FailAccountUpdate; err != nil {
		return err
	}
	if _, ok := r.u.store.accounts[a.ID]; !ok {
		return account.ErrAccountNotFound
	}
	r.u.store.accounts[a.ID] = *a
	return nil
}

type transactionRepo struct{ u *uow }

func (r *transactionRepo) Create(_ context.Context, tx *account.Transaction) error {
	defer r.u.lock()()
	if err := r.u.store.FailTransactionCreate; err != nil {
		return err
	}
	r.u.store.txns = append(r.u.store.txns, *tx)
	return nil
}

func (r *transactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	defer r.u.lock()()
	var out []*account.Transaction
	// stored oldest-first; returned most recent first
	for i := len(r.u.store.txns) - 1; i >= 0; i-- {
		tx := r.u.store.txns[i]
		if touches(&tx, accountID) {
			cp := tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *transactionRepo) AmountsByAccount(_ context.Context, accountID uuid.UUID) ([]decimal.Decimal, error) {
	defer r.u.lock()()
	var out []decimal.Decimal
	for i := len(r.u.store.txns) - 1; i >= 0; i-- {
		tx := r.u.store.txns[i]
		if touches(&tx, accountID) {
			out = append(out, tx.Amount)
		}
	}
	return out, nil
}

func touches(tx *account.Transaction, accountID uuid.UUID) bool {
	if tx.FromAccountID != nil && *tx.FromAccountID == accountID {
		return true
	}
	return tx.ToAccountID != nil && *tx.ToAccountID == accountID
}

type userRepo struct{ u *uow }

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	defer r.u.lock()()
	usr, ok := r.u.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := usr
	return &cp, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	defer r.u.lock()()
	for _, usr := range r.u.store.users {
		if usr.Email == email {
			cp := usr
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) Create(_ context.Context, usr *user.User) error {
	defer r.u.lock()()
	r.u.store.users[usr.ID] = *usr
	return nil
}

type auditRepo struct{ u *uow }

func (r *auditRepo) Create(_ context.Context, e *audit.Entry) error {
	defer r.u.lock()()
	if err := r.u.store.FailAudit; err != nil {
		return err
	}
	r.u.store.audits = append(r.u.store.audits, *e)
	return nil
}
