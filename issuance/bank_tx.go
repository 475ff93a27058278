package issuance

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/DomeLiquid/custody/core"
)

type credit struct {
	recipient string
	amount    decimal.Decimal
}

// bankTx stages credits and reserves debits until Commit. Reserved funds leave the
// escrow at once, so a later Commit cannot fall short.
type bankTx struct {
	bank *Bank

	credits  []credit
	reserved decimal.Decimal
	done     bool
}

func (b *Bank) Begin(ctx context.Context) core.IssuerTx {
	return &bankTx{bank: b, reserved: decimal.Zero}
}

func (tx *bankTx) Credit(ctx context.Context, recipient string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Errorf("credit amount must be positive, got %s", amount)
	}
	if tx.done {
		return errors.New("issuer transaction already finished")
	}
	tx.credits = append(tx.credits, credit{recipient: recipient, amount: amount})
	return nil
}

func (tx *bankTx) Debit(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Errorf("debit amount must be positive, got %s", amount)
	}
	if tx.done {
		return errors.New("issuer transaction already finished")
	}
	b := tx.bank
	b.mu.Lock()
	defer b.mu.Unlock()

	denom := b.asset.Denom
	held := b.escrowed(denom)
	if held.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "escrow holds %s%s, burn needs %s", held, denom, amount)
	}
	b.escrow[denom] = held.Sub(amount)
	tx.reserved = tx.reserved.Add(amount)
	return nil
}

func (tx *bankTx) Commit() {
	if tx.done {
		return
	}
	tx.done = true
	b := tx.bank
	b.mu.Lock()
	defer b.mu.Unlock()

	denom := b.asset.Denom
	for _, c := range tx.credits {
		// cannot fail: amount is positive
		_ = b.balance(c.recipient, denom).Change(b.clk, c.amount)
		b.supply = b.supply.Add(c.amount)
		b.journal(SnapshotKindMint, c.recipient, denom, c.amount)
	}
	if tx.reserved.IsPositive() {
		b.supply = b.supply.Sub(tx.reserved)
		b.journal(SnapshotKindBurn, ModuleAccount, denom, tx.reserved.Neg())
	}
}

func (tx *bankTx) Rollback() {
	if tx.done {
		return
	}
	tx.done = true
	if !tx.reserved.IsPositive() {
		return
	}
	b := tx.bank
	b.mu.Lock()
	defer b.mu.Unlock()
	b.escrow[b.asset.Denom] = b.escrowed(b.asset.Denom).Add(tx.reserved)
}
