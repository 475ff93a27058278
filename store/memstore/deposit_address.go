package memstore

import (
	"context"

	"gorm.io/gorm"
)

func (s *Store) GetCustodianDepositAddress(ctx context.Context, merchant string) (string, error) {
	return s.lookup(func(st *state) map[string]string { return st.custodianDepositAddresses }, merchant)
}

func (s *Store) SetCustodianDepositAddress(ctx context.Context, merchant, address string) error {
	s.write(func(st *state) func() { return setKey(st.custodianDepositAddresses, merchant, address) })
	return nil
}

func (s *Store) GetMerchantDepositAddress(ctx context.Context, merchant string) (string, error) {
	return s.lookup(func(st *state) map[string]string { return st.merchantDepositAddresses }, merchant)
}

func (s *Store) SetMerchantDepositAddress(ctx context.Context, merchant, address string) error {
	s.write(func(st *state) func() { return setKey(st.merchantDepositAddresses, merchant, address) })
	return nil
}

func (s *Store) lookup(table func(st *state) map[string]string, key string) (value string, err error) {
	s.read(func(st *state) {
		v, ok := table(st)[key]
		if !ok {
			err = gorm.ErrRecordNotFound
			return
		}
		value = v
	})
	return
}
