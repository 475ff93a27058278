package core_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DomeLiquid/custody/core"
)

func TestBurn(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mint(t, 1000)

	res, err := h.burn(merchant, decimal.NewFromInt(400), h.token(400))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Nonce)
	assert.Equal(t, "burn", res.Action())
	assert.Equal(t, "400", res.Get("amount"))

	assert.True(t, decimal.NewFromInt(600).Equal(h.bank.BalanceOf(merchant, h.cfg.TokenDenom)))
	assert.True(t, decimal.NewFromInt(600).Equal(h.bank.Supply()))

	req, err := h.c.GetBurnRequestByHash(h.ctx, res.RequestHash)
	require.NoError(t, err)
	assert.Equal(t, core.BurnRequestStatusExecuted, req.Status)
	assert.True(t, req.Data.TxId.IsPending())
	assert.Equal(t, merchant, req.Data.Requester)
	assert.Equal(t, "", req.Data.DepositAddress)

	res, err = h.burn(merchant, decimal.NewFromInt(100), h.token(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Nonce)
}

func TestBurnRecordsMerchantDepositAddress(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mint(t, 10)
	_, err := h.c.SetMerchantDepositAddress(h.ctx, info(merchant), "bc1qmerchant")
	require.NoError(t, err)

	res, err := h.burn(merchant, decimal.NewFromInt(10), h.token(10))
	require.NoError(t, err)
	assert.Equal(t, "bc1qmerchant", res.Get("deposit_address"))
	req, err := h.c.GetBurnRequestByNonce(h.ctx, res.Nonce)
	require.NoError(t, err)
	assert.Equal(t, "bc1qmerchant", req.Data.DepositAddress)
}

func TestBurnFailuresLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		prep   func(t *testing.T, h *harness)
		sender string
		amount int64
		funds  func(h *harness) []core.Coin
		err    error
	}{
		{
			name:   "not a merchant",
			prep:   func(t *testing.T, h *harness) { require.NoError(t, h.bank.Mint(stranger, h.token(50))) },
			sender: stranger,
			amount: 50,
			funds:  func(h *harness) []core.Coin { return []core.Coin{h.token(50)} },
			err:    core.ErrUnauthorized,
		},
		{
			name: "paused",
			prep: func(t *testing.T, h *harness) {
				_, err := h.c.Pause(h.ctx, info(owner))
				require.NoError(t, err)
			},
			sender: merchant,
			amount: 50,
			funds:  func(h *harness) []core.Coin { return []core.Coin{h.token(50)} },
			err:    core.ErrTokenTransferPaused,
		},
		{
			name: "below minimum",
			prep: func(t *testing.T, h *harness) {
				_, err := h.c.SetMinBurnAmount(h.ctx, info(owner), decimal.NewFromInt(100))
				require.NoError(t, err)
			},
			sender: merchant,
			amount: 50,
			funds:  func(h *harness) []core.Coin { return []core.Coin{h.token(50)} },
			err:    core.ErrBurnAmountTooSmall,
		},
		{
			name:   "zero amount",
			sender: merchant,
			amount: 0,
			funds:  func(h *harness) []core.Coin { return []core.Coin{h.token(1)} },
			err:    core.ErrInvalidAmount,
		},
		{
			name:   "attached less than amount",
			sender: merchant,
			amount: 50,
			funds:  func(h *harness) []core.Coin { return []core.Coin{h.token(40)} },
			err:    core.ErrInvalidFunds,
		},
		{
			name:   "nothing attached",
			sender: merchant,
			amount: 50,
			funds:  func(h *harness) []core.Coin { return nil },
			err:    core.ErrInvalidFunds,
		},
		{
			name:   "wrong denom",
			prep:   func(t *testing.T, h *harness) { require.NoError(t, h.bank.Mint(merchant, core.NewCoin("uatom", decimal.NewFromInt(50)))) },
			sender: merchant,
			amount: 50,
			funds:  func(h *harness) []core.Coin { return []core.Coin{core.NewCoin("uatom", decimal.NewFromInt(50))} },
			err:    core.ErrInvalidFunds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.setup(t)
			h.mint(t, 100)
			if tt.prep != nil {
				tt.prep(t, h)
			}
			balance := h.bank.BalanceOf(tt.sender, h.cfg.TokenDenom)
			supply := h.bank.Supply()

			_, err := h.burn(tt.sender, decimal.NewFromInt(tt.amount), tt.funds(h)...)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)

			assert.True(t, balance.Equal(h.bank.BalanceOf(tt.sender, h.cfg.TokenDenom)))
			assert.True(t, supply.Equal(h.bank.Supply()))
			length, err := h.c.GetBurnRequestsLength(h.ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), length)
		})
	}
}

func TestBurnRollsBackOnDebitFailure(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mint(t, 100)

	// funds declared on the message but never escrowed by the bank
	_, err := h.c.Burn(h.ctx, info(merchant, h.token(100)), decimal.NewFromInt(100))
	require.Error(t, err)

	length, err := h.c.GetBurnRequestsLength(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), length)
	assert.True(t, decimal.NewFromInt(100).Equal(h.bank.Supply()))

	res, err := h.burn(merchant, decimal.NewFromInt(100), h.token(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Nonce)
}

func TestConfirmBurnRequest(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mint(t, 100)
	res, err := h.burn(merchant, decimal.NewFromInt(100), h.token(100))
	require.NoError(t, err)

	_, err = h.c.ConfirmBurnRequest(h.ctx, info(merchant), res.RequestHash, "tx2")
	assert.True(t, errors.Is(err, core.ErrUnauthorized))
	_, err = h.c.ConfirmBurnRequest(h.ctx, info(custodian), "00ff", "tx2")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	confirmed, err := h.c.ConfirmBurnRequest(h.ctx, info(custodian), res.RequestHash, "tx2")
	require.NoError(t, err)
	assert.Equal(t, "tx2", confirmed.Get("tx_id"))

	req, err := h.c.GetBurnRequestByHash(h.ctx, res.RequestHash)
	require.NoError(t, err)
	assert.Equal(t, core.TxIdConfirmed("tx2"), req.Data.TxId)

	_, err = h.c.ConfirmBurnRequest(h.ctx, info(custodian), res.RequestHash, "tx3")
	var updatable *core.UpdatableStatusExpectedError
	require.True(t, errors.As(err, &updatable))
	assert.Equal(t, res.RequestHash, updatable.RequestHash)

	req, err = h.c.GetBurnRequestByHash(h.ctx, res.RequestHash)
	require.NoError(t, err)
	assert.Equal(t, "tx2", req.Data.TxId.Id)
}

func TestListBurnRequests(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mint(t, 100)
	for i := 0; i < 4; i++ {
		_, err := h.burn(merchant, decimal.NewFromInt(10), h.token(10))
		require.NoError(t, err)
	}

	entries, err := h.c.ListBurnRequests(h.ctx, "", 1, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(2), entries[0].Request.Data.Nonce)
	assert.Equal(t, uint64(3), entries[1].Request.Data.Nonce)

	entries, err = h.c.ListBurnRequests(h.ctx, core.BurnRequestStatusExecuted, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	entries, err = h.c.ListBurnRequests(h.ctx, core.BurnRequestStatus("other"), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	length, err := h.c.GetBurnRequestsLength(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), length)

	_, err = h.c.GetBurnRequestByNonce(h.ctx, 5)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestBurnWithFailedCommitRefunds(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mint(t, 100)

	failing := core.NewController(commitFailingStore{Store: h.store}, h.bank, h.cfg, core.WithClock(h.clk))
	msg := info(merchant, h.token(100))
	err := h.bank.WithFunds(msg, func() error {
		_, err := failing.Burn(h.ctx, msg, decimal.NewFromInt(100))
		return err
	})
	assert.True(t, errors.Is(err, errCommitFailed))

	length, err := h.c.GetBurnRequestsLength(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), length)
	assert.True(t, decimal.NewFromInt(100).Equal(h.bank.Supply()))
	assert.True(t, decimal.NewFromInt(100).Equal(h.bank.BalanceOf(merchant, h.cfg.TokenDenom)))

	res, err := h.burn(merchant, decimal.NewFromInt(100), h.token(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Nonce)
	assert.True(t, h.bank.Supply().IsZero())
}
