package memstore

import (
	"context"

	"github.com/shopspring/decimal"
)

// GetPaused reports false until a value is set.
func (s *Store) GetPaused(ctx context.Context) (paused bool, err error) {
	s.read(func(st *state) {
		if st.paused != nil {
			paused = *st.paused
		}
	})
	return
}

func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	s.write(func(st *state) func() { return setPtr(&st.paused, paused) })
	return nil
}

// GetMinBurnAmount reports zero until a value is set.
func (s *Store) GetMinBurnAmount(ctx context.Context) (amount decimal.Decimal, err error) {
	amount = decimal.Zero
	s.read(func(st *state) {
		if st.minBurnAmount != nil {
			amount = *st.minBurnAmount
		}
	})
	return
}

func (s *Store) SetMinBurnAmount(ctx context.Context, amount decimal.Decimal) error {
	s.write(func(st *state) func() { return setPtr(&st.minBurnAmount, amount) })
	return nil
}
