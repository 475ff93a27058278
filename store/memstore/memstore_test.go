package memstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DomeLiquid/custody/core"
)

func TestTransactionCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Transaction(ctx, func(tx core.Store) error {
		return tx.SetOwner(ctx, "owner")
	}))
	owner, err := s.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner", owner)

	failure := errors.New("abort")
	err = s.Transaction(ctx, func(tx core.Store) error {
		require.NoError(t, tx.SetOwner(ctx, "other"))
		require.NoError(t, tx.AddMerchant(ctx, "merchant"))
		_, err := tx.IncrNonce(ctx, core.LedgerMint)
		require.NoError(t, err)

		// the view sees its own writes
		owner, err := tx.GetOwner(ctx)
		require.NoError(t, err)
		assert.Equal(t, "other", owner)
		return failure
	})
	assert.Equal(t, failure, err)

	owner, err = s.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner", owner)
	ok, err := s.HasMerchant(ctx, "merchant")
	require.NoError(t, err)
	assert.False(t, ok)
	nonce, err := s.GetNonce(ctx, core.LedgerMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nonce)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetOwner(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = s.GetCustodian(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = s.GetCustodianDepositAddress(ctx, "merchant")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = s.GetMerchantDepositAddress(ctx, "merchant")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = s.GetRequestRecordByHash(ctx, core.LedgerMint, "ab")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = s.GetRequestRecordByNonce(ctx, core.LedgerBurn, 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	paused, err := s.GetPaused(ctx)
	require.NoError(t, err)
	assert.False(t, paused)
	amount, err := s.GetMinBurnAmount(ctx)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestListMerchants(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, m := range []string{"carol", "alice", "bob", "dave"} {
		require.NoError(t, s.AddMerchant(ctx, m))
	}
	require.NoError(t, s.AddMerchant(ctx, "bob"))

	tests := []struct {
		startAfter string
		limit      int
		want       []string
	}{
		{"", 10, []string{"alice", "bob", "carol", "dave"}},
		{"", 2, []string{"alice", "bob"}},
		{"bob", 10, []string{"carol", "dave"}},
		{"bobby", 1, []string{"carol"}},
		{"dave", 10, []string{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.startAfter, tt.limit), func(t *testing.T) {
			got, err := s.ListMerchants(ctx, tt.startAfter, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	require.NoError(t, s.RemoveMerchant(ctx, "bob"))
	got, err := s.ListMerchants(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol", "dave"}, got)
}

func TestRequestRecords(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 1; i <= 5; i++ {
		nonce, err := s.IncrNonce(ctx, core.LedgerMint)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), nonce)
		require.NoError(t, s.CreateRequestRecord(ctx, &core.RequestRecord{
			Ledger: core.LedgerMint,
			Nonce:  nonce,
			Hash:   fmt.Sprintf("hash%d", nonce),
			Status: "pending",
			Data:   []byte(`{}`),
		}))
	}

	err := s.CreateRequestRecord(ctx, &core.RequestRecord{Ledger: core.LedgerMint, Nonce: 6, Hash: "hash1"})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// ledgers are independent
	count, err := s.CountRequestRecords(ctx, core.LedgerBurn)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	count, err = s.CountRequestRecords(ctx, core.LedgerMint)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	record, err := s.GetRequestRecordByNonce(ctx, core.LedgerMint, 3)
	require.NoError(t, err)
	assert.Equal(t, "hash3", record.Hash)

	record.Status = "approved"
	record.Data = []byte(`{"status":"approved"}`)
	require.NoError(t, s.UpdateRequestRecord(ctx, record))
	record, err = s.GetRequestRecordByHash(ctx, core.LedgerMint, "hash3")
	require.NoError(t, err)
	assert.Equal(t, "approved", record.Status)

	records, err := s.ListRequestRecords(ctx, core.LedgerMint, 2, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(3), records[0].Nonce)
	assert.Equal(t, uint64(4), records[1].Nonce)

	records, err = s.ListRequestRecords(ctx, core.LedgerMint, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateRequestRecord(ctx, &core.RequestRecord{
		Ledger: core.LedgerBurn, Nonce: 1, Hash: "h", Status: "executed", Data: []byte("x"),
	}))
	record, err := s.GetRequestRecordByHash(ctx, core.LedgerBurn, "h")
	require.NoError(t, err)
	record.Status = "mutated"
	record.Data[0] = 'y'

	record, err = s.GetRequestRecordByHash(ctx, core.LedgerBurn, "h")
	require.NoError(t, err)
	assert.Equal(t, "executed", record.Status)
	assert.Equal(t, []byte("x"), record.Data)
}

func TestParams(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SetPaused(ctx, true))
	require.NoError(t, s.SetMinBurnAmount(ctx, decimal.NewFromInt(1000)))

	paused, err := s.GetPaused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)
	amount, err := s.GetMinBurnAmount(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(amount))
}

func TestTransactionRollbackRestoresEveryWrite(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SetCustodian(ctx, "custodian"))
	require.NoError(t, s.AddMerchant(ctx, "merchant"))
	require.NoError(t, s.SetCustodianDepositAddress(ctx, "merchant", "bc1qold"))
	require.NoError(t, s.SetMinBurnAmount(ctx, decimal.NewFromInt(5)))
	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, s.CreateRequestRecord(ctx, &core.RequestRecord{
			Ledger: core.LedgerMint, Nonce: i, Hash: fmt.Sprintf("hash%d", i), Status: "pending", Data: []byte(`{}`),
		}))
	}

	err := s.Transaction(ctx, func(tx core.Store) error {
		require.NoError(t, tx.SetCustodian(ctx, "other"))
		require.NoError(t, tx.RemoveMerchant(ctx, "merchant"))
		require.NoError(t, tx.RemoveMerchant(ctx, "nobody"))
		require.NoError(t, tx.SetCustodianDepositAddress(ctx, "merchant", "bc1qnew"))
		require.NoError(t, tx.SetMerchantDepositAddress(ctx, "merchant", "bc1qmine"))
		require.NoError(t, tx.SetPaused(ctx, true))
		require.NoError(t, tx.SetMinBurnAmount(ctx, decimal.NewFromInt(9)))
		err := tx.CreateRequestRecord(ctx, &core.RequestRecord{
			Ledger: core.LedgerMint, Nonce: 2, Hash: "dup", Data: []byte(`{}`),
		})
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
		require.NoError(t, tx.UpdateRequestRecord(ctx, &core.RequestRecord{
			Ledger: core.LedgerMint, Hash: "hash2", Status: "approved", Data: []byte(`{"x":1}`),
		}))
		require.NoError(t, tx.CreateRequestRecord(ctx, &core.RequestRecord{
			Ledger: core.LedgerMint, Nonce: 10, Hash: "hash10", Status: "pending", Data: []byte(`{}`),
		}))
		return errors.New("abort")
	})
	require.Error(t, err)

	custodian, err := s.GetCustodian(ctx)
	require.NoError(t, err)
	assert.Equal(t, "custodian", custodian)
	ok, err := s.HasMerchant(ctx, "merchant")
	require.NoError(t, err)
	assert.True(t, ok)
	address, err := s.GetCustodianDepositAddress(ctx, "merchant")
	require.NoError(t, err)
	assert.Equal(t, "bc1qold", address)
	_, err = s.GetMerchantDepositAddress(ctx, "merchant")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	paused, err := s.GetPaused(ctx)
	require.NoError(t, err)
	assert.False(t, paused)
	amount, err := s.GetMinBurnAmount(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(amount))

	record, err := s.GetRequestRecordByHash(ctx, core.LedgerMint, "hash2")
	require.NoError(t, err)
	assert.Equal(t, "pending", record.Status)
	assert.Equal(t, []byte(`{}`), record.Data)
	_, err = s.GetRequestRecordByHash(ctx, core.LedgerMint, "hash10")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	records, err := s.ListRequestRecords(ctx, core.LedgerMint, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, uint64(3), records[2].Nonce)
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := New()

	assert.Panics(t, func() {
		_ = s.Transaction(ctx, func(tx core.Store) error {
			require.NoError(t, tx.SetOwner(ctx, "owner"))
			panic("boom")
		})
	})
	_, err := s.GetOwner(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// the lock was released
	require.NoError(t, s.SetOwner(ctx, "owner"))
}
