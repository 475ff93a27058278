package memstore

import (
	"context"
	"sort"

	"gorm.io/gorm"
)

func (s *Store) GetOwner(ctx context.Context) (owner string, err error) {
	s.read(func(st *state) {
		if st.owner == nil {
			err = gorm.ErrRecordNotFound
			return
		}
		owner = *st.owner
	})
	return
}

func (s *Store) SetOwner(ctx context.Context, address string) error {
	s.write(func(st *state) func() { return setPtr(&st.owner, address) })
	return nil
}

func (s *Store) GetCustodian(ctx context.Context) (custodian string, err error) {
	s.read(func(st *state) {
		if st.custodian == nil {
			err = gorm.ErrRecordNotFound
			return
		}
		custodian = *st.custodian
	})
	return
}

func (s *Store) SetCustodian(ctx context.Context, address string) error {
	s.write(func(st *state) func() { return setPtr(&st.custodian, address) })
	return nil
}

func (s *Store) AddMerchant(ctx context.Context, address string) error {
	s.write(func(st *state) func() { return setKey(st.merchants, address, struct{}{}) })
	return nil
}

func (s *Store) RemoveMerchant(ctx context.Context, address string) error {
	s.write(func(st *state) func() { return deleteKey(st.merchants, address) })
	return nil
}

func (s *Store) HasMerchant(ctx context.Context, address string) (ok bool, err error) {
	s.read(func(st *state) { _, ok = st.merchants[address] })
	return
}

func (s *Store) ListMerchants(ctx context.Context, startAfter string, limit int) ([]string, error) {
	var merchants []string
	s.read(func(st *state) {
		merchants = make([]string, 0, len(st.merchants))
		for address := range st.merchants {
			if address > startAfter {
				merchants = append(merchants, address)
			}
		}
	})
	sort.Strings(merchants)
	if limit >= 0 && len(merchants) > limit {
		merchants = merchants[:limit]
	}
	return merchants, nil
}
