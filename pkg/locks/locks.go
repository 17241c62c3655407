// Package locks provides the per-account exclusive locks guarding balance
// mutations. One shared Registry is injected into every service that mutates
// balances, so a deposit and a transfer touching the same account always
// contend on the same mutex.
package locks

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one mutex per account id. Locks are created lazily and
// never discarded; an idle mutex is a few words of memory.
type Registry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Get returns the mutex guarding the given account, creating it on first use.
func (r *Registry) Get(id uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

// LockPair acquires the locks of both accounts in ascending id order,
// regardless of argument order, so two transfers running in opposite
// directions between the same pair can never deadlock. The returned function
// releases both locks.
func (r *Registry) LockPair(a, b uuid.UUID) (unlock func()) {
	first, second := a, b
	if bytes.Compare(b[:], a[:]) < 0 {
		first, second = b, a
	}
	fl, sl := r.Get(first), r.Get(second)
	fl.Lock()
	sl.Lock()
	return func() {
		sl.Unlock()
		fl.Unlock()
	}
}
