package core

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/DomeLiquid/custody/utils"
)

type MintRequestStatus string

const (
	MintRequestStatusPending   MintRequestStatus = "pending"
	MintRequestStatusApproved  MintRequestStatus = "approved"
	MintRequestStatusRejected  MintRequestStatus = "rejected"
	MintRequestStatusCancelled MintRequestStatus = "cancelled"
)

func (s MintRequestStatus) String() string {
	switch s {
	case MintRequestStatusPending:
		return "pending"
	case MintRequestStatusApproved:
		return "approved"
	case MintRequestStatusRejected:
		return "rejected"
	case MintRequestStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type (
	MintRequestData struct {
		Requester      string          `json:"requester"`
		Amount         decimal.Decimal `json:"amount"`
		TxId           string          `json:"txId"`
		DepositAddress string          `json:"depositAddress"`
		Nonce          uint64          `json:"nonce"`
		Timestamp      int64           `json:"timestamp"`
	}

	MintRequest struct {
		Status MintRequestStatus `json:"status"`
		Data   MintRequestData   `json:"data"`
	}

	// mintHashPayload fixes field order and encoding of the request hash.
	mintHashPayload struct {
		Nonce          uint64          `json:"nonce"`
		Requester      string          `json:"requester"`
		Amount         decimal.Decimal `json:"amount"`
		TxId           string          `json:"tx_id"`
		DepositAddress string          `json:"deposit_address"`
		Timestamp      int64           `json:"timestamp"`
	}
)

func NewMintRequest(clk clock.Clock, nonce uint64, requester string, amount decimal.Decimal, txId, depositAddress string) *MintRequest {
	return &MintRequest{
		Status: MintRequestStatusPending,
		Data: MintRequestData{
			Requester:      requester,
			Amount:         amount,
			TxId:           txId,
			DepositAddress: depositAddress,
			Nonce:          nonce,
			Timestamp:      clk.Now().Unix(),
		},
	}
}

func (r *MintRequest) GetNonce() uint64 {
	return r.Data.Nonce
}

func (r *MintRequest) StatusString() string {
	return r.Status.String()
}

func (r *MintRequest) Hash() (string, error) {
	b, err := json.Marshal(mintHashPayload{
		Nonce:          r.Data.Nonce,
		Requester:      r.Data.Requester,
		Amount:         r.Data.Amount,
		TxId:           r.Data.TxId,
		DepositAddress: r.Data.DepositAddress,
		Timestamp:      r.Data.Timestamp,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode mint request hash payload")
	}
	return utils.Sha256Hex(b), nil
}

// IsUpdatable reports whether the request may still transition.
func (r *MintRequest) IsUpdatable() bool {
	return r.Status == MintRequestStatusPending
}

func (c *Controller) IssueMintRequest(ctx context.Context, info MessageInfo, amount decimal.Decimal, txId, depositAddress string) (*RequestResponse, error) {
	var (
		nonce uint64
		hash  string
	)
	res, err := c.execute(ctx, "issue_mint_request", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleMerchant}, info.Sender); err != nil {
			return nil, err
		}
		if err := validateAmount(amount); err != nil {
			return nil, errors.Wrapf(err, "mint amount %s", amount)
		}
		custodianDepositAddress, err := getCustodianDepositAddress(ctx, tx, info.Sender)
		if err != nil {
			return nil, err
		}
		if custodianDepositAddress != depositAddress {
			return nil, &CustodianDepositAddressNotFoundError{Merchant: info.Sender}
		}
		if c.cfg.RequireMatchingMerchantDepositAddress {
			merchantDepositAddress, err := tx.GetMerchantDepositAddress(ctx, info.Sender)
			if err != nil && !IsRecordNotFound(err) {
				return nil, err
			}
			if merchantDepositAddress != depositAddress {
				return nil, errors.Wrapf(ErrMerchantDepositAddressMismatch, "merchant %s", info.Sender)
			}
		}

		if nonce, err = c.mintRequests.NextNonce(ctx, tx); err != nil {
			return nil, err
		}
		req := NewMintRequest(c.clk, nonce, info.Sender, amount, txId, depositAddress)
		if nonce, hash, err = c.mintRequests.Insert(ctx, c.clk, tx, req); err != nil {
			return nil, err
		}
		return append(requestAttrs(req.Data.Requester, nonce, hash, req.Data.Amount),
			Attr("tx_id", req.Data.TxId),
			Attr("deposit_address", req.Data.DepositAddress),
		), nil
	})
	if err != nil {
		return nil, err
	}
	return &RequestResponse{Response: *res, Nonce: nonce, RequestHash: hash}, nil
}

func (c *Controller) ApproveMintRequest(ctx context.Context, info MessageInfo, requestHash string) (*Response, error) {
	var approved *MintRequest
	res, err := c.executeIssuing(ctx, "approve_mint_request", info, false, func(ctx context.Context, tx Store, itx IssuerTx) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleCustodian}, info.Sender); err != nil {
			return nil, err
		}
		req, err := c.transitionMintRequest(ctx, tx, requestHash, MintRequestStatusApproved)
		if err != nil {
			return nil, err
		}
		if err := itx.Credit(ctx, req.Data.Requester, req.Data.Amount); err != nil {
			return nil, errors.Wrapf(err, "credit %s to %s", req.Data.Amount, req.Data.Requester)
		}
		approved = req
		return []Attribute{
			Attr("request_hash", requestHash),
			Attr("requester", req.Data.Requester),
			Attr("amount", req.Data.Amount.String()),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	c.observeMinted(approved.Data.Amount)
	return res, nil
}

func (c *Controller) RejectMintRequest(ctx context.Context, info MessageInfo, requestHash string) (*Response, error) {
	return c.execute(ctx, "reject_mint_request", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleCustodian}, info.Sender); err != nil {
			return nil, err
		}
		if _, err := c.transitionMintRequest(ctx, tx, requestHash, MintRequestStatusRejected); err != nil {
			return nil, err
		}
		return []Attribute{Attr("request_hash", requestHash)}, nil
	})
}

func (c *Controller) CancelMintRequest(ctx context.Context, info MessageInfo, requestHash string) (*Response, error) {
	return c.execute(ctx, "cancel_mint_request", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		req, err := c.mintRequests.GetByHash(ctx, tx, requestHash)
		if err != nil {
			return nil, err
		}
		if req.Data.Requester != info.Sender {
			return nil, ErrUnauthorized
		}
		if _, err := c.transitionMintRequest(ctx, tx, requestHash, MintRequestStatusCancelled); err != nil {
			return nil, err
		}
		return []Attribute{Attr("request_hash", requestHash)}, nil
	})
}

// transitionMintRequest moves a pending request to one of its terminal states.
func (c *Controller) transitionMintRequest(ctx context.Context, tx Store, requestHash string, status MintRequestStatus) (*MintRequest, error) {
	req, err := c.mintRequests.GetByHash(ctx, tx, requestHash)
	if err != nil {
		return nil, err
	}
	if !req.IsUpdatable() {
		return nil, &UpdatableStatusExpectedError{RequestHash: requestHash}
	}
	req.Status = status
	if err := c.mintRequests.Update(ctx, c.clk, tx, requestHash, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Controller) GetMintRequestByHash(ctx context.Context, requestHash string) (*MintRequest, error) {
	return c.mintRequests.GetByHash(ctx, c.store, requestHash)
}

func (c *Controller) GetMintRequestByNonce(ctx context.Context, nonce uint64) (*MintRequest, error) {
	return c.mintRequests.GetByNonce(ctx, c.store, nonce)
}

// ListMintRequests pages by nonce. A zero startAfterNonce starts from the beginning,
// a zero limit uses the configured default and an empty status matches all.
func (c *Controller) ListMintRequests(ctx context.Context, status MintRequestStatus, startAfterNonce uint64, limit uint32) ([]RequestEntry[*MintRequest], error) {
	return c.mintRequests.List(ctx, c.store, string(status), startAfterNonce, c.clampLimit(limit))
}

func (c *Controller) GetMintRequestsLength(ctx context.Context) (uint64, error) {
	return c.mintRequests.Length(ctx, c.store)
}

func requestAttrs(requester string, nonce uint64, hash string, amount decimal.Decimal) []Attribute {
	return []Attribute{
		Attr("requester", requester),
		Attr("nonce", strconv.FormatUint(nonce, 10)),
		Attr("request_hash", hash),
		Attr("amount", amount.String()),
	}
}
