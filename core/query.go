package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	NonceQuery struct {
		Nonce uint64 `json:"nonce,string"`
	}

	AddressQuery struct {
		Address string `json:"address"`
	}

	// QueryMsg is a tagged union of read-only queries: exactly one field is set.
	QueryMsg struct {
		GetMintRequest        *NonceQuery   `json:"get_mint_request,omitempty"`
		GetMintRequestsLength *EmptyMsg     `json:"get_mint_requests_length,omitempty"`
		GetBurnRequest        *NonceQuery   `json:"get_burn_request,omitempty"`
		GetBurnRequestsLength *EmptyMsg     `json:"get_burn_requests_length,omitempty"`
		GetTokenDenom         *EmptyMsg     `json:"get_token_denom,omitempty"`
		IsMerchant            *AddressQuery `json:"is_merchant,omitempty"`
		IsCustodian           *AddressQuery `json:"is_custodian,omitempty"`
		GetCustodian          *EmptyMsg     `json:"get_custodian,omitempty"`
		GetOwner              *EmptyMsg     `json:"get_owner,omitempty"`
		IsOwner               *AddressQuery `json:"is_owner,omitempty"`
	}

	RequestQueryResponse struct {
		Amount         decimal.Decimal `json:"amount"`
		DepositAddress string          `json:"deposit_address"`
		RequestHash    string          `json:"request_hash"`
		RequestNonce   uint64          `json:"request_nonce,string"`
		Requester      string          `json:"requester"`
		Status         string          `json:"status"`
		Timestamp      int64           `json:"timestamp,string"`
		TxId           string          `json:"tx_id"`
	}

	LengthResponse struct {
		Length uint64 `json:"length,string"`
	}

	AddressResponse struct {
		Address string `json:"address"`
	}

	TokenDenomResponse struct {
		Denom string `json:"denom"`
	}

	IsMerchantResponse struct {
		IsMerchant bool `json:"is_merchant"`
	}

	IsCustodianResponse struct {
		IsCustodian bool `json:"is_custodian"`
	}

	IsOwnerResponse struct {
		IsOwner bool `json:"is_owner"`
	}
)

// Kind names the query that is set. It fails unless exactly one is.
func (q *QueryMsg) Kind() (string, error) {
	set := map[string]bool{
		"get_mint_request":         q.GetMintRequest != nil,
		"get_mint_requests_length": q.GetMintRequestsLength != nil,
		"get_burn_request":         q.GetBurnRequest != nil,
		"get_burn_requests_length": q.GetBurnRequestsLength != nil,
		"get_token_denom":          q.GetTokenDenom != nil,
		"is_merchant":              q.IsMerchant != nil,
		"is_custodian":             q.IsCustodian != nil,
		"get_custodian":            q.GetCustodian != nil,
		"get_owner":                q.GetOwner != nil,
		"is_owner":                 q.IsOwner != nil,
	}
	kind := ""
	for k, ok := range set {
		if !ok {
			continue
		}
		if kind != "" {
			return "", errors.Wrap(ErrInvalidMsg, "more than one query set")
		}
		kind = k
	}
	if kind == "" {
		return "", errors.Wrap(ErrInvalidMsg, "no query set")
	}
	return kind, nil
}

// Query answers q with one of the *Response types above.
func (c *Controller) Query(ctx context.Context, q *QueryMsg) (any, error) {
	kind, err := q.Kind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case "get_mint_request":
		req, err := c.GetMintRequestByNonce(ctx, q.GetMintRequest.Nonce)
		if err != nil {
			return nil, err
		}
		hash, err := req.Hash()
		if err != nil {
			return nil, err
		}
		d := req.Data
		return &RequestQueryResponse{
			Amount:         d.Amount,
			DepositAddress: d.DepositAddress,
			RequestHash:    hash,
			RequestNonce:   d.Nonce,
			Requester:      d.Requester,
			Status:         req.Status.String(),
			Timestamp:      d.Timestamp,
			TxId:           d.TxId,
		}, nil
	case "get_burn_request":
		req, err := c.GetBurnRequestByNonce(ctx, q.GetBurnRequest.Nonce)
		if err != nil {
			return nil, err
		}
		hash, err := req.Hash()
		if err != nil {
			return nil, err
		}
		d := req.Data
		return &RequestQueryResponse{
			Amount:         d.Amount,
			DepositAddress: d.DepositAddress,
			RequestHash:    hash,
			RequestNonce:   d.Nonce,
			Requester:      d.Requester,
			Status:         req.Status.String(),
			Timestamp:      d.Timestamp,
			TxId:           d.TxId.String(),
		}, nil
	case "get_mint_requests_length":
		n, err := c.GetMintRequestsLength(ctx)
		if err != nil {
			return nil, err
		}
		return &LengthResponse{Length: n}, nil
	case "get_burn_requests_length":
		n, err := c.GetBurnRequestsLength(ctx)
		if err != nil {
			return nil, err
		}
		return &LengthResponse{Length: n}, nil
	case "get_token_denom":
		return &TokenDenomResponse{Denom: c.GetTokenDenom()}, nil
	case "is_merchant":
		ok, err := c.IsMerchant(ctx, q.IsMerchant.Address)
		if err != nil {
			return nil, err
		}
		return &IsMerchantResponse{IsMerchant: ok}, nil
	case "is_custodian":
		ok, err := c.IsCustodian(ctx, q.IsCustodian.Address)
		if err != nil {
			return nil, err
		}
		return &IsCustodianResponse{IsCustodian: ok}, nil
	case "is_owner":
		ok, err := c.IsOwner(ctx, q.IsOwner.Address)
		if err != nil {
			return nil, err
		}
		return &IsOwnerResponse{IsOwner: ok}, nil
	case "get_custodian":
		address, err := c.GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		return &AddressResponse{Address: address}, nil
	case "get_owner":
		address, err := c.GetOwner(ctx)
		if err != nil {
			return nil, err
		}
		return &AddressResponse{Address: address}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidMsg, "query %s", kind)
	}
}

// QueryJSON decodes a JSON query and encodes its answer.
func (c *Controller) QueryJSON(ctx context.Context, raw []byte) ([]byte, error) {
	var q QueryMsg
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, errors.Wrap(ErrInvalidMsg, err.Error())
	}
	res, err := c.Query(ctx, &q)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(err, "encode query response")
	}
	return b, nil
}
