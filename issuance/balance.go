package issuance

import (
	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Balance struct {
	Address    string          `json:"address"`
	Denom      string          `json:"denom"`
	Amount     decimal.Decimal `json:"amount"`
	LastUpdate int64           `json:"lastUpdate"`
}

func NewBalance(clk clock.Clock, address, denom string) *Balance {
	return &Balance{
		Address:    address,
		Denom:      denom,
		Amount:     decimal.Zero,
		LastUpdate: clk.Now().Unix(),
	}
}

func (b *Balance) Clone() *Balance {
	return &Balance{
		Address:    b.Address,
		Denom:      b.Denom,
		Amount:     b.Amount,
		LastUpdate: b.LastUpdate,
	}
}

// Change applies delta, refusing to go below zero.
func (b *Balance) Change(clk clock.Clock, delta decimal.Decimal) error {
	amount := b.Amount.Add(delta)
	if amount.IsNegative() {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s%s, needs %s", b.Address, b.Amount, b.Denom, delta.Neg())
	}
	b.Amount = amount
	b.LastUpdate = clk.Now().Unix()
	return nil
}
