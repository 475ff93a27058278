package core

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestMintRequestHash(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(1700000000 * time.Second)
	amount := decimal.NewFromInt(100000000)

	a := NewMintRequest(clk, 1, "merchant", amount, "tx1", "bc1qdeposit")
	b := NewMintRequest(clk, 1, "merchant", amount, "tx1", "bc1qdeposit")
	c := NewMintRequest(clk, 2, "merchant", amount, "tx1", "bc1qdeposit")

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	hc, err := c.Hash()
	require.NoError(t, err)

	assert.Regexp(t, hexDigest, ha)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)

	// status is mutable and not part of the digest
	a.Status = MintRequestStatusApproved
	ha2, err := a.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, ha2)
}

func TestBurnRequestHashIgnoresTxId(t *testing.T) {
	clk := clock.NewMock()
	req := NewBurnRequest(clk, 7, "merchant", decimal.NewFromInt(10), "")
	before, err := req.Hash()
	require.NoError(t, err)

	req.Data.TxId = TxIdConfirmed("tx2")
	after, err := req.Hash()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	other := NewBurnRequest(clk, 8, "merchant", decimal.NewFromInt(10), "")
	h, err := other.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, before, h)
}

func TestTxIdJSON(t *testing.T) {
	tests := []struct {
		txId TxId
		json string
	}{
		{TxIdPending(), `"pending"`},
		{TxIdConfirmed("tx2"), `{"confirmed":"tx2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.txId.String(), func(t *testing.T) {
			b, err := json.Marshal(tt.txId)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(b))

			var decoded TxId
			require.NoError(t, json.Unmarshal(b, &decoded))
			assert.Equal(t, tt.txId, decoded)
		})
	}

	var bad TxId
	assert.Error(t, json.Unmarshal([]byte(`"done"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"other":"x"}`), &bad))
}

func TestMintRequestStatus(t *testing.T) {
	req := &MintRequest{Status: MintRequestStatusPending}
	assert.True(t, req.IsUpdatable())
	for _, status := range []MintRequestStatus{MintRequestStatusApproved, MintRequestStatusRejected, MintRequestStatusCancelled} {
		req.Status = status
		assert.False(t, req.IsUpdatable(), status.String())
	}
	assert.Equal(t, "unknown", MintRequestStatus("other").String())
}
