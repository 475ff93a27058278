package core_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DomeLiquid/custody/core"
)

func TestQueryJSON(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	mint := h.issue(t, 100)
	h.mint(t, 150)
	burn, err := h.burn(merchant, decimal.NewFromInt(100), h.token(100))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  map[string]any
	}{
		{"mint request", `{"get_mint_request":{"nonce":"1"}}`, map[string]any{
			"amount": "100", "deposit_address": depositAddr, "request_hash": mint.RequestHash,
			"request_nonce": "1", "requester": merchant, "status": "pending",
			"timestamp": "1700000000", "tx_id": "tx100",
		}},
		{"burn request", `{"get_burn_request":{"nonce":"1"}}`, map[string]any{
			"amount": "100", "deposit_address": "", "request_hash": burn.RequestHash,
			"request_nonce": "1", "requester": merchant, "status": "executed",
			"timestamp": "1700000000", "tx_id": "pending",
		}},
		{"mint length", `{"get_mint_requests_length":{}}`, map[string]any{"length": "2"}},
		{"burn length", `{"get_burn_requests_length":{}}`, map[string]any{"length": "1"}},
		{"denom", `{"get_token_denom":{}}`, map[string]any{"denom": h.cfg.TokenDenom}},
		{"is merchant", `{"is_merchant":{"address":"merchant"}}`, map[string]any{"is_merchant": true}},
		{"is custodian", `{"is_custodian":{"address":"merchant"}}`, map[string]any{"is_custodian": false}},
		{"is owner", `{"is_owner":{"address":"owner"}}`, map[string]any{"is_owner": true}},
		{"custodian", `{"get_custodian":{}}`, map[string]any{"address": custodian}},
		{"owner", `{"get_owner":{}}`, map[string]any{"address": owner}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := h.c.QueryJSON(h.ctx, []byte(tt.query))
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.c.QueryJSON(h.ctx, []byte(`{}`))
	assert.True(t, errors.Is(err, core.ErrInvalidMsg))
	_, err = h.c.QueryJSON(h.ctx, []byte(`{"get_owner":{},"get_custodian":{}}`))
	assert.True(t, errors.Is(err, core.ErrInvalidMsg))
	_, err = h.c.QueryJSON(h.ctx, []byte(`not json`))
	assert.True(t, errors.Is(err, core.ErrInvalidMsg))

	_, err = h.c.QueryJSON(h.ctx, []byte(`{"get_mint_request":{"nonce":"7"}}`))
	assert.True(t, errors.Is(err, core.ErrNotFound))
	_, err = h.c.QueryJSON(h.ctx, []byte(`{"get_custodian":{}}`))
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
