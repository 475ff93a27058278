package memstore

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/DomeLiquid/custody/core"
)

func (s *Store) IncrNonce(ctx context.Context, name core.Ledger) (nonce uint64, err error) {
	s.write(func(st *state) func() {
		l := s.ledger(st, name)
		l.nonce++
		nonce = l.nonce
		return func() { l.nonce-- }
	})
	return
}

func (s *Store) GetNonce(ctx context.Context, name core.Ledger) (nonce uint64, err error) {
	s.read(func(st *state) {
		if l, ok := st.ledgers[name]; ok {
			nonce = l.nonce
		}
	})
	return
}

func (s *Store) CreateRequestRecord(ctx context.Context, record *core.RequestRecord) (err error) {
	s.write(func(st *state) func() {
		l := s.ledger(st, record.Ledger)
		if _, ok := l.byHash[record.Hash]; ok {
			err = errors.Wrapf(gorm.ErrDuplicatedKey, "%s request %s", record.Ledger, record.Hash)
			return nil
		}
		if _, ok := l.byNonce[record.Nonce]; ok {
			err = errors.Wrapf(gorm.ErrDuplicatedKey, "%s request nonce %d", record.Ledger, record.Nonce)
			return nil
		}
		r := copyRecord(record)
		l.byHash[r.Hash] = r
		l.byNonce[r.Nonce] = r.Hash
		i := sort.Search(len(l.nonces), func(i int) bool { return l.nonces[i] >= r.Nonce })
		l.nonces = append(l.nonces, 0)
		copy(l.nonces[i+1:], l.nonces[i:])
		l.nonces[i] = r.Nonce
		return func() {
			delete(l.byHash, r.Hash)
			delete(l.byNonce, r.Nonce)
			j := sort.Search(len(l.nonces), func(j int) bool { return l.nonces[j] >= r.Nonce })
			l.nonces = append(l.nonces[:j], l.nonces[j+1:]...)
		}
	})
	return
}

func (s *Store) UpdateRequestRecord(ctx context.Context, record *core.RequestRecord) (err error) {
	s.write(func(st *state) func() {
		l := s.ledger(st, record.Ledger)
		stored, ok := l.byHash[record.Hash]
		if !ok {
			err = gorm.ErrRecordNotFound
			return nil
		}
		prev := copyRecord(stored)
		stored.Status = record.Status
		stored.Data = append([]byte(nil), record.Data...)
		stored.UpdatedAt = record.UpdatedAt
		return func() { *stored = *prev }
	})
	return
}

func (s *Store) GetRequestRecordByHash(ctx context.Context, name core.Ledger, hash string) (record *core.RequestRecord, err error) {
	s.read(func(st *state) {
		record, err = getByHash(st, name, hash)
	})
	return
}

func (s *Store) GetRequestRecordByNonce(ctx context.Context, name core.Ledger, nonce uint64) (record *core.RequestRecord, err error) {
	s.read(func(st *state) {
		l, ok := st.ledgers[name]
		if !ok {
			err = gorm.ErrRecordNotFound
			return
		}
		hash, ok := l.byNonce[nonce]
		if !ok {
			err = gorm.ErrRecordNotFound
			return
		}
		record, err = getByHash(st, name, hash)
	})
	return
}

func (s *Store) ListRequestRecords(ctx context.Context, name core.Ledger, startAfterNonce uint64, limit int) (records []*core.RequestRecord, err error) {
	s.read(func(st *state) {
		l, ok := st.ledgers[name]
		if !ok {
			return
		}
		i := sort.Search(len(l.nonces), func(i int) bool { return l.nonces[i] > startAfterNonce })
		for ; i < len(l.nonces) && len(records) < limit; i++ {
			records = append(records, copyRecord(l.byHash[l.byNonce[l.nonces[i]]]))
		}
	})
	return
}

func (s *Store) CountRequestRecords(ctx context.Context, name core.Ledger) (count int64, err error) {
	s.read(func(st *state) {
		if l, ok := st.ledgers[name]; ok {
			count = int64(len(l.byHash))
		}
	})
	return
}

func getByHash(st *state, name core.Ledger, hash string) (*core.RequestRecord, error) {
	l, ok := st.ledgers[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	record, ok := l.byHash[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyRecord(record), nil
}

func copyRecord(record *core.RequestRecord) *core.RequestRecord {
	r := *record
	r.Data = append([]byte(nil), record.Data...)
	return &r
}
