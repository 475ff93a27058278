package issuance

import (
	"context"
	"strconv"
	"sync"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/DomeLiquid/custody/core"
	"github.com/DomeLiquid/custody/utils"
)

// ModuleAccount holds funds attached to successful calls that were not burned.
const ModuleAccount = "custody"

type balanceKey struct {
	address string
	denom   string
}

var _ core.Issuer = (*Bank)(nil)

// Bank is an in-memory issuance module: it holds balances of any denom, mints and
// burns the token denom, and escrows the funds attached to a controller call.
type Bank struct {
	mu sync.Mutex

	clk   clock.Clock
	asset *TokenAsset

	balances  map[balanceKey]*Balance
	supply    decimal.Decimal
	escrow    map[string]decimal.Decimal
	snapshots []*Snapshot
}

func NewBank(clk clock.Clock, asset *TokenAsset) *Bank {
	return &Bank{
		clk:      clk,
		asset:    asset,
		balances: make(map[balanceKey]*Balance),
		supply:   decimal.Zero,
		escrow:   make(map[string]decimal.Decimal),
	}
}

func (b *Bank) Asset() *TokenAsset {
	return b.asset
}

// Credit mints amount of the token denom to recipient right away.
func (b *Bank) Credit(ctx context.Context, recipient string, amount decimal.Decimal) error {
	tx := b.Begin(ctx)
	if err := tx.Credit(ctx, recipient, amount); err != nil {
		tx.Rollback()
		return err
	}
	tx.Commit()
	return nil
}

// Debit burns amount of the token denom out of the escrowed funds right away.
func (b *Bank) Debit(ctx context.Context, amount decimal.Decimal) error {
	tx := b.Begin(ctx)
	if err := tx.Debit(ctx, amount); err != nil {
		tx.Rollback()
		return err
	}
	tx.Commit()
	return nil
}

// Mint credits recipient directly, outside any controller call. It seeds balances for
// holders of other denoms too.
func (b *Bank) Mint(recipient string, coin core.Coin) error {
	if coin.Denom == b.asset.Denom {
		return b.Credit(context.Background(), recipient, coin.Amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.balance(recipient, coin.Denom).Change(b.clk, coin.Amount); err != nil {
		return err
	}
	b.journal(SnapshotKindMint, recipient, coin.Denom, coin.Amount)
	return nil
}

// WithFunds moves the funds attached to info from the sender into escrow and runs fn.
// On error every escrowed coin goes back to the sender; on success what fn did not
// burn settles to the module account.
func (b *Bank) WithFunds(info core.MessageInfo, fn func() error) error {
	if err := b.attach(info); err != nil {
		return err
	}
	if err := fn(); err != nil {
		b.release(info.Sender, SnapshotKindRefund)
		return err
	}
	b.release(ModuleAccount, SnapshotKindSettle)
	return nil
}

func (b *Bank) attach(info core.MessageInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, coin := range info.Funds {
		if !coin.Amount.IsPositive() {
			return errors.Errorf("attached %s%s is not positive", coin.Amount, coin.Denom)
		}
	}
	changed := make([]*Balance, 0, len(info.Funds))
	for _, coin := range info.Funds {
		balance := b.balance(info.Sender, coin.Denom)
		if err := balance.Change(b.clk, coin.Amount.Neg()); err != nil {
			for i, prev := range changed {
				prev.Amount = prev.Amount.Add(info.Funds[i].Amount)
			}
			return err
		}
		changed = append(changed, balance)
	}
	for _, coin := range info.Funds {
		b.escrow[coin.Denom] = b.escrowed(coin.Denom).Add(coin.Amount)
		b.journal(SnapshotKindAttach, info.Sender, coin.Denom, coin.Amount.Neg())
	}
	return nil
}

func (b *Bank) release(to string, kind SnapshotKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for denom, amount := range b.escrow {
		if amount.IsPositive() {
			// cannot fail: amount is positive
			_ = b.balance(to, denom).Change(b.clk, amount)
			b.journal(kind, to, denom, amount)
		}
		delete(b.escrow, denom)
	}
}

func (b *Bank) BalanceOf(address, denom string) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	if balance, ok := b.balances[balanceKey{address, denom}]; ok {
		return balance.Amount
	}
	return decimal.Zero
}

// Supply is the outstanding amount of the token denom.
func (b *Bank) Supply() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supply
}

func (b *Bank) Snapshots() []*Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Snapshot, len(b.snapshots))
	copy(out, b.snapshots)
	return out
}

func (b *Bank) balance(address, denom string) *Balance {
	key := balanceKey{address, denom}
	balance, ok := b.balances[key]
	if !ok {
		balance = NewBalance(b.clk, address, denom)
		b.balances[key] = balance
	}
	return balance
}

func (b *Bank) escrowed(denom string) decimal.Decimal {
	if amount, ok := b.escrow[denom]; ok {
		return amount
	}
	return decimal.Zero
}

func (b *Bank) journal(kind SnapshotKind, address, denom string, amount decimal.Decimal) {
	seq := strconv.Itoa(len(b.snapshots) + 1)
	b.snapshots = append(b.snapshots, &Snapshot{
		SnapshotId: uuid.Must(uuid.NewV4()).String(),
		TraceId:    utils.GenUuidFromStrings(string(kind), address, denom, seq),
		Kind:       kind,
		Address:    address,
		Denom:      denom,
		Amount:     amount,
		CreatedAt:  b.clk.Now().Unix(),
	})
}
