package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func (c *Controller) Pause(ctx context.Context, info MessageInfo) (*Response, error) {
	return c.setPaused(ctx, "pause", info, true)
}

func (c *Controller) Unpause(ctx context.Context, info MessageInfo) (*Response, error) {
	return c.setPaused(ctx, "unpause", info, false)
}

func (c *Controller) setPaused(ctx context.Context, action string, info MessageInfo, paused bool) (*Response, error) {
	return c.execute(ctx, action, info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleOwner}, info.Sender); err != nil {
			return nil, err
		}
		if err := tx.SetPaused(ctx, paused); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// SetMinBurnAmount sets the smallest amount a single burn may destroy. Zero disables
// the check.
func (c *Controller) SetMinBurnAmount(ctx context.Context, info MessageInfo, amount decimal.Decimal) (*Response, error) {
	return c.execute(ctx, "set_min_burn_amount", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := AllowOnly(ctx, tx, []Role{RoleOwner}, info.Sender); err != nil {
			return nil, err
		}
		if amount.IsNegative() || !amount.IsInteger() {
			return nil, errors.Wrapf(ErrInvalidAmount, "min burn amount %s", amount)
		}
		if err := tx.SetMinBurnAmount(ctx, amount); err != nil {
			return nil, err
		}
		return []Attribute{Attr("amount", amount.String())}, nil
	})
}

// IsPaused reports false for a store that was never instantiated.
func (c *Controller) IsPaused(ctx context.Context) (bool, error) {
	paused, err := c.store.GetPaused(ctx)
	if err != nil {
		if IsRecordNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return paused, nil
}

func (c *Controller) GetMinBurnAmount(ctx context.Context) (decimal.Decimal, error) {
	amount, err := c.store.GetMinBurnAmount(ctx)
	if err != nil {
		if IsRecordNotFound(err) {
			return ZERO_AMOUNT, nil
		}
		return ZERO_AMOUNT, err
	}
	return amount, nil
}
