package core

import (
	"github.com/shopspring/decimal"
)

type (
	Coin struct {
		Denom  string          `json:"denom"`
		Amount decimal.Decimal `json:"amount"`
	}

	// MessageInfo is what the host knows about the caller of an operation.
	MessageInfo struct {
		Sender string `json:"sender"`
		Funds  []Coin `json:"funds,omitempty"`
	}
)

func NewCoin(denom string, amount decimal.Decimal) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func NewMessageInfo(sender string, funds ...Coin) MessageInfo {
	return MessageInfo{Sender: sender, Funds: funds}
}

func nonPayable(info MessageInfo) error {
	if len(info.Funds) > 0 {
		return ErrNonPayable
	}
	return nil
}

// mustPay returns the amount attached in denom, requiring it to be the only coin sent.
func mustPay(info MessageInfo, denom string) (decimal.Decimal, error) {
	if len(info.Funds) != 1 {
		return decimal.Zero, ErrInvalidFunds
	}
	coin := info.Funds[0]
	if coin.Denom != denom || !coin.Amount.IsPositive() {
		return decimal.Zero, ErrInvalidFunds
	}
	return coin.Amount, nil
}

// validateAmount accepts positive integral amounts of the asset's smallest unit.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.IsInteger() {
		return ErrInvalidAmount
	}
	return nil
}
