package core

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type ActionType uint8

const (
	ActionTransferOwnership ActionType = iota + 1
	ActionSetCustodian
	ActionAddMerchant
	ActionRemoveMerchant
	ActionSetCustodianDepositAddress
	ActionSetMerchantDepositAddress
	ActionAddMintRequest
	ActionCancelMintRequest
	ActionConfirmMintRequest
	ActionRejectMintRequest
	ActionBurn
	ActionConfirmBurnRequest
	ActionPause
	ActionUnpause
	ActionSetMinBurnAmount
)

func (a ActionType) String() string {
	switch a {
	case ActionTransferOwnership:
		return "transfer_ownership"
	case ActionSetCustodian:
		return "set_custodian"
	case ActionAddMerchant:
		return "add_merchant"
	case ActionRemoveMerchant:
		return "remove_merchant"
	case ActionSetCustodianDepositAddress:
		return "set_custodian_deposit_address"
	case ActionSetMerchantDepositAddress:
		return "set_merchant_deposit_address"
	case ActionAddMintRequest:
		return "add_mint_request"
	case ActionCancelMintRequest:
		return "cancel_mint_request"
	case ActionConfirmMintRequest:
		return "confirm_mint_request"
	case ActionRejectMintRequest:
		return "reject_mint_request"
	case ActionBurn:
		return "burn"
	case ActionConfirmBurnRequest:
		return "confirm_burn_request"
	case ActionPause:
		return "pause"
	case ActionUnpause:
		return "unpause"
	case ActionSetMinBurnAmount:
		return "set_min_burn_amount"
	default:
		return "unknown"
	}
}

func (a ActionType) Valid() bool {
	return a >= ActionTransferOwnership && a <= ActionSetMinBurnAmount
}

type (
	TransferOwnershipMsg struct {
		NewOwnerAddress string `json:"new_owner_address"`
	}

	AddressMsg struct {
		Address string `json:"address"`
	}

	SetCustodianDepositAddressMsg struct {
		Merchant       string `json:"merchant"`
		DepositAddress string `json:"deposit_address"`
	}

	SetMerchantDepositAddressMsg struct {
		DepositAddress string `json:"deposit_address"`
	}

	AddMintRequestMsg struct {
		Amount         decimal.Decimal `json:"amount"`
		TxId           string          `json:"tx_id"`
		DepositAddress string          `json:"deposit_address"`
	}

	RequestHashMsg struct {
		RequestHash string `json:"request_hash"`
	}

	BurnMsg struct {
		Amount decimal.Decimal `json:"amount"`
	}

	ConfirmBurnRequestMsg struct {
		RequestHash string `json:"request_hash"`
		TxId        string `json:"tx_id"`
	}

	EmptyMsg struct{}

	AmountMsg struct {
		Amount decimal.Decimal `json:"amount"`
	}

	// ExecuteMsg is a tagged union: exactly one field is set.
	ExecuteMsg struct {
		TransferOwnership          *TransferOwnershipMsg          `json:"transfer_ownership,omitempty"`
		SetCustodian               *AddressMsg                    `json:"set_custodian,omitempty"`
		AddMerchant                *AddressMsg                    `json:"add_merchant,omitempty"`
		RemoveMerchant             *AddressMsg                    `json:"remove_merchant,omitempty"`
		SetCustodianDepositAddress *SetCustodianDepositAddressMsg `json:"set_custodian_deposit_address,omitempty"`
		SetMerchantDepositAddress  *SetMerchantDepositAddressMsg  `json:"set_merchant_deposit_address,omitempty"`
		AddMintRequest             *AddMintRequestMsg             `json:"add_mint_request,omitempty"`
		CancelMintRequest          *RequestHashMsg                `json:"cancel_mint_request,omitempty"`
		ConfirmMintRequest         *RequestHashMsg                `json:"confirm_mint_request,omitempty"`
		RejectMintRequest          *RequestHashMsg                `json:"reject_mint_request,omitempty"`
		Burn                       *BurnMsg                       `json:"burn,omitempty"`
		ConfirmBurnRequest         *ConfirmBurnRequestMsg         `json:"confirm_burn_request,omitempty"`
		Pause                      *EmptyMsg                      `json:"pause,omitempty"`
		Unpause                    *EmptyMsg                      `json:"unpause,omitempty"`
		SetMinBurnAmount           *AmountMsg                     `json:"set_min_burn_amount,omitempty"`
	}
)

// Action reports which variant is set. It fails unless exactly one is.
func (m *ExecuteMsg) Action() (ActionType, error) {
	set := map[ActionType]bool{
		ActionTransferOwnership:          m.TransferOwnership != nil,
		ActionSetCustodian:               m.SetCustodian != nil,
		ActionAddMerchant:                m.AddMerchant != nil,
		ActionRemoveMerchant:             m.RemoveMerchant != nil,
		ActionSetCustodianDepositAddress: m.SetCustodianDepositAddress != nil,
		ActionSetMerchantDepositAddress:  m.SetMerchantDepositAddress != nil,
		ActionAddMintRequest:             m.AddMintRequest != nil,
		ActionCancelMintRequest:          m.CancelMintRequest != nil,
		ActionConfirmMintRequest:         m.ConfirmMintRequest != nil,
		ActionRejectMintRequest:          m.RejectMintRequest != nil,
		ActionBurn:                       m.Burn != nil,
		ActionConfirmBurnRequest:         m.ConfirmBurnRequest != nil,
		ActionPause:                      m.Pause != nil,
		ActionUnpause:                    m.Unpause != nil,
		ActionSetMinBurnAmount:           m.SetMinBurnAmount != nil,
	}
	var action ActionType
	for a, ok := range set {
		if !ok {
			continue
		}
		if action != 0 {
			return 0, errors.Wrap(ErrInvalidMsg, "more than one action set")
		}
		action = a
	}
	if !action.Valid() {
		return 0, errors.Wrap(ErrInvalidMsg, "no action set")
	}
	return action, nil
}

// EncodeMemo renders msg the way it travels in a transfer memo: base64 of its JSON.
func EncodeMemo(msg *ExecuteMsg) (string, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return "", errors.Wrap(err, "encode execute message")
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeMemo(memo string) (*ExecuteMsg, error) {
	b, err := base64.StdEncoding.DecodeString(memo)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMsg, err.Error())
	}
	var msg ExecuteMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, errors.Wrap(ErrInvalidMsg, err.Error())
	}
	if _, err := msg.Action(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Dispatch routes a decoded message to the matching controller operation.
func (c *Controller) Dispatch(ctx context.Context, info MessageInfo, msg *ExecuteMsg) (*Response, error) {
	action, err := msg.Action()
	if err != nil {
		return nil, err
	}

	requestResponse := func(res *RequestResponse, err error) (*Response, error) {
		if err != nil {
			return nil, err
		}
		return &res.Response, nil
	}

	switch action {
	case ActionTransferOwnership:
		return c.TransferOwnership(ctx, info, msg.TransferOwnership.NewOwnerAddress)
	case ActionSetCustodian:
		return c.SetCustodian(ctx, info, msg.SetCustodian.Address)
	case ActionAddMerchant:
		return c.AddMerchant(ctx, info, msg.AddMerchant.Address)
	case ActionRemoveMerchant:
		return c.RemoveMerchant(ctx, info, msg.RemoveMerchant.Address)
	case ActionSetCustodianDepositAddress:
		m := msg.SetCustodianDepositAddress
		return c.SetCustodianDepositAddress(ctx, info, m.Merchant, m.DepositAddress)
	case ActionSetMerchantDepositAddress:
		return c.SetMerchantDepositAddress(ctx, info, msg.SetMerchantDepositAddress.DepositAddress)
	case ActionAddMintRequest:
		m := msg.AddMintRequest
		return requestResponse(c.IssueMintRequest(ctx, info, m.Amount, m.TxId, m.DepositAddress))
	case ActionCancelMintRequest:
		return c.CancelMintRequest(ctx, info, msg.CancelMintRequest.RequestHash)
	case ActionConfirmMintRequest:
		return c.ApproveMintRequest(ctx, info, msg.ConfirmMintRequest.RequestHash)
	case ActionRejectMintRequest:
		return c.RejectMintRequest(ctx, info, msg.RejectMintRequest.RequestHash)
	case ActionBurn:
		return requestResponse(c.Burn(ctx, info, msg.Burn.Amount))
	case ActionConfirmBurnRequest:
		m := msg.ConfirmBurnRequest
		return c.ConfirmBurnRequest(ctx, info, m.RequestHash, m.TxId)
	case ActionPause:
		return c.Pause(ctx, info)
	case ActionUnpause:
		return c.Unpause(ctx, info)
	case ActionSetMinBurnAmount:
		return c.SetMinBurnAmount(ctx, info, msg.SetMinBurnAmount.Amount)
	default:
		return nil, errors.Wrapf(ErrInvalidMsg, "action %s", action)
	}
}
