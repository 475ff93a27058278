package core

import (
	"context"
	"encoding/json"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/DomeLiquid/custody/utils"
)

type BurnRequestStatus string

// Burns execute eagerly, so executed is the only status a burn request has.
const BurnRequestStatusExecuted BurnRequestStatus = "executed"

func (s BurnRequestStatus) String() string {
	switch s {
	case BurnRequestStatusExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// TxId is the external settlement reference of a burn: pending until the custodian
// confirms it.
type TxId struct {
	Confirmed bool
	Id        string
}

func TxIdPending() TxId {
	return TxId{}
}

func TxIdConfirmed(id string) TxId {
	return TxId{Confirmed: true, Id: id}
}

func (t TxId) IsPending() bool {
	return !t.Confirmed
}

func (t TxId) String() string {
	if t.IsPending() {
		return "pending"
	}
	return t.Id
}

// MarshalJSON encodes pending as "pending" and confirmed as {"confirmed":"<id>"}.
func (t TxId) MarshalJSON() ([]byte, error) {
	if t.IsPending() {
		return json.Marshal("pending")
	}
	return json.Marshal(map[string]string{"confirmed": t.Id})
}

func (t *TxId) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "pending" {
			return errors.Errorf("unknown tx id state %q", s)
		}
		*t = TxIdPending()
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return errors.Wrap(err, "decode tx id")
	}
	id, ok := m["confirmed"]
	if !ok {
		return errors.Errorf("unknown tx id %s", string(b))
	}
	*t = TxIdConfirmed(id)
	return nil
}

type (
	BurnRequestData struct {
		Requester string          `json:"requester"`
		Amount    decimal.Decimal `json:"amount"`
		TxId      TxId            `json:"txId"`
		// DepositAddress is the merchant-declared address at burn time, if any.
		DepositAddress string `json:"depositAddress"`
		Nonce          uint64 `json:"nonce"`
		Timestamp      int64  `json:"timestamp"`
	}

	BurnRequest struct {
		Status BurnRequestStatus `json:"status"`
		Data   BurnRequestData   `json:"data"`
	}

	burnHashPayload struct {
		Nonce          uint64          `json:"nonce"`
		Requester      string          `json:"requester"`
		Amount         decimal.Decimal `json:"amount"`
		DepositAddress string          `json:"deposit_address"`
		Timestamp      int64           `json:"timestamp"`
	}
)

func NewBurnRequest(clk clock.Clock, nonce uint64, requester string, amount decimal.Decimal, depositAddress string) *BurnRequest {
	return &BurnRequest{
		Status: BurnRequestStatusExecuted,
		Data: BurnRequestData{
			Requester:      requester,
			Amount:         amount,
			TxId:           TxIdPending(),
			DepositAddress: depositAddress,
			Nonce:          nonce,
			Timestamp:      clk.Now().Unix(),
		},
	}
}

func (r *BurnRequest) GetNonce() uint64 {
	return r.Data.Nonce
}

func (r *BurnRequest) StatusString() string {
	return r.Status.String()
}

// Hash leaves out TxId, which changes on confirmation.
func (r *BurnRequest) Hash() (string, error) {
	b, err := json.Marshal(burnHashPayload{
		Nonce:          r.Data.Nonce,
		Requester:      r.Data.Requester,
		Amount:         r.Data.Amount,
		DepositAddress: r.Data.DepositAddress,
		Timestamp:      r.Data.Timestamp,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode burn request hash payload")
	}
	return utils.Sha256Hex(b), nil
}

// Burn destroys the attached funds right away and records a request the custodian
// settles off-chain later.
func (c *Controller) Burn(ctx context.Context, info MessageInfo, amount decimal.Decimal) (*RequestResponse, error) {
	var (
		nonce uint64
		hash  string
	)
	res, err := c.executeIssuing(ctx, "burn", info, true, func(ctx context.Context, tx Store, itx IssuerTx) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleMerchant}, info.Sender); err != nil {
			return nil, err
		}
		paused, err := tx.GetPaused(ctx)
		if err != nil {
			return nil, err
		}
		if paused {
			return nil, ErrTokenTransferPaused
		}
		minBurnAmount, err := tx.GetMinBurnAmount(ctx)
		if err != nil {
			return nil, err
		}
		if amount.LessThan(minBurnAmount) {
			return nil, &BurnAmountTooSmallError{Requested: amount, Min: minBurnAmount}
		}
		if err := validateAmount(amount); err != nil {
			return nil, errors.Wrapf(err, "burn amount %s", amount)
		}
		paid, err := mustPay(info, c.cfg.TokenDenom)
		if err != nil {
			return nil, err
		}
		if !paid.Equal(amount) {
			return nil, errors.Wrapf(ErrInvalidFunds, "attached %s%s, burn amount %s", paid, c.cfg.TokenDenom, amount)
		}
		depositAddress, err := tx.GetMerchantDepositAddress(ctx, info.Sender)
		if err != nil && !IsRecordNotFound(err) {
			return nil, err
		}

		if nonce, err = c.burnRequests.NextNonce(ctx, tx); err != nil {
			return nil, err
		}
		req := NewBurnRequest(c.clk, nonce, info.Sender, amount, depositAddress)
		if nonce, hash, err = c.burnRequests.Insert(ctx, c.clk, tx, req); err != nil {
			return nil, err
		}
		if err := itx.Debit(ctx, amount); err != nil {
			return nil, errors.Wrapf(err, "burn %s", amount)
		}
		return append(requestAttrs(req.Data.Requester, nonce, hash, req.Data.Amount),
			Attr("deposit_address", req.Data.DepositAddress),
		), nil
	})
	if err != nil {
		return nil, err
	}
	c.observeBurned(amount)
	return &RequestResponse{Response: *res, Nonce: nonce, RequestHash: hash}, nil
}

func (c *Controller) ConfirmBurnRequest(ctx context.Context, info MessageInfo, requestHash, txId string) (*Response, error) {
	return c.execute(ctx, "confirm_burn_request", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleCustodian}, info.Sender); err != nil {
			return nil, err
		}
		req, err := c.burnRequests.GetByHash(ctx, tx, requestHash)
		if err != nil {
			return nil, err
		}
		if !req.Data.TxId.IsPending() {
			return nil, &UpdatableStatusExpectedError{RequestHash: requestHash}
		}
		req.Data.TxId = TxIdConfirmed(txId)
		if err := c.burnRequests.Update(ctx, c.clk, tx, requestHash, req); err != nil {
			return nil, err
		}
		return []Attribute{
			Attr("request_hash", requestHash),
			Attr("tx_id", txId),
		}, nil
	})
}

func (c *Controller) GetBurnRequestByHash(ctx context.Context, requestHash string) (*BurnRequest, error) {
	return c.burnRequests.GetByHash(ctx, c.store, requestHash)
}

func (c *Controller) GetBurnRequestByNonce(ctx context.Context, nonce uint64) (*BurnRequest, error) {
	return c.burnRequests.GetByNonce(ctx, c.store, nonce)
}

func (c *Controller) ListBurnRequests(ctx context.Context, status BurnRequestStatus, startAfterNonce uint64, limit uint32) ([]RequestEntry[*BurnRequest], error) {
	return c.burnRequests.List(ctx, c.store, string(status), startAfterNonce, c.clampLimit(limit))
}

func (c *Controller) GetBurnRequestsLength(ctx context.Context) (uint64, error) {
	return c.burnRequests.Length(ctx, c.store)
}
