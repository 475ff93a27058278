package memstore

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/DomeLiquid/custody/core"
)

type (
	state struct {
		owner     *string
		custodian *string
		merchants map[string]struct{}

		custodianDepositAddresses map[string]string
		merchantDepositAddresses  map[string]string

		paused        *bool
		minBurnAmount *decimal.Decimal

		ledgers map[core.Ledger]*ledger
	}

	ledger struct {
		nonce  uint64
		byHash map[string]*core.RequestRecord
		// nonces is kept sorted ascending
		nonces  []uint64
		byNonce map[uint64]string
	}

	// Store keeps everything in memory. A Transaction view writes straight into the
	// live state under the write lock and logs how to revert each write; the log is
	// replayed backwards when fn fails.
	Store struct {
		mu    *sync.RWMutex
		state *state
		// tx is set on the view handed to a Transaction callback
		tx   bool
		undo *[]func()
	}
)

var _ core.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		mu:    &sync.RWMutex{},
		state: newState(),
	}
}

func newState() *state {
	return &state{
		merchants:                 make(map[string]struct{}),
		custodianDepositAddresses: make(map[string]string),
		merchantDepositAddresses:  make(map[string]string),
		ledgers:                   make(map[core.Ledger]*ledger),
	}
}

func newLedger() *ledger {
	return &ledger{
		byHash:  make(map[string]*core.RequestRecord),
		byNonce: make(map[uint64]string),
	}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx core.Store) error) error {
	if s.tx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, state: s.state, tx: true, undo: &[]func(){}}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) rollback() {
	log := *s.undo
	for i := len(log) - 1; i >= 0; i-- {
		log[i]()
	}
	*s.undo = nil
}

// read runs fn under the read lock unless s is already a transaction view, whose
// owner holds the write lock.
func (s *Store) read(fn func(st *state)) {
	if !s.tx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(s.state)
}

// write runs fn, which returns how to revert what it did, or nil.
func (s *Store) write(fn func(st *state) (undo func())) {
	if !s.tx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if undo := fn(s.state); undo != nil && s.undo != nil {
		*s.undo = append(*s.undo, undo)
	}
}

func setPtr[T any](p **T, v T) func() {
	prev := *p
	*p = &v
	return func() { *p = prev }
}

func setKey[K comparable, V any](m map[K]V, k K, v V) func() {
	prev, existed := m[k]
	m[k] = v
	return func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

func deleteKey[K comparable, V any](m map[K]V, k K) func() {
	prev, existed := m[k]
	if !existed {
		return nil
	}
	delete(m, k)
	return func() { m[k] = prev }
}

func (s *Store) ledger(st *state, name core.Ledger) *ledger {
	l, ok := st.ledgers[name]
	if !ok {
		l = newLedger()
		st.ledgers[name] = l
	}
	return l
}
