package core

import (
	"context"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/DomeLiquid/custody/metrics"
	"github.com/DomeLiquid/custody/utils"
)

// Controller gates and applies every state transition of the issuance service. It
// holds no state of its own: roles, deposit addresses, parameters and both request
// ledgers live in the Store, so independent controllers never share state.
type Controller struct {
	clk    clock.Clock
	log    Log
	store  Store
	issuer Issuer
	sink   EventSink
	cfg    Config

	validateAddress AddressValidator

	mintRequests *RequestIndex[*MintRequest]
	burnRequests *RequestIndex[*BurnRequest]
}

type ControllerOption func(c *Controller)

func WithClock(clk clock.Clock) ControllerOption {
	return func(c *Controller) {
		c.clk = clk
	}
}

func WithLog(log Log) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

func WithEventSink(sink EventSink) ControllerOption {
	return func(c *Controller) {
		c.sink = sink
	}
}

func WithAddressValidator(validator AddressValidator) ControllerOption {
	return func(c *Controller) {
		c.validateAddress = validator
	}
}

func NewController(store Store, issuer Issuer, cfg Config, opts ...ControllerOption) *Controller {
	c := &Controller{
		clk:             clock.New(),
		log:             nopLog(),
		store:           store,
		issuer:          issuer,
		cfg:             cfg,
		validateAddress: ValidateAddress,
		mintRequests:    NewRequestIndex(LedgerMint, func() *MintRequest { return &MintRequest{} }),
		burnRequests:    NewRequestIndex(LedgerBurn, func() *BurnRequest { return &BurnRequest{} }),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Instantiate records the owner and the initial parameters. It can only succeed once
// per store.
func (c *Controller) Instantiate(ctx context.Context, info MessageInfo, owner string) (*Response, error) {
	return c.execute(ctx, "instantiate", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := c.validate(owner); err != nil {
			return nil, err
		}
		if err := initializeOwner(ctx, tx, owner); err != nil {
			return nil, err
		}
		if err := tx.SetPaused(ctx, false); err != nil {
			return nil, err
		}
		if err := tx.SetMinBurnAmount(ctx, c.cfg.MinBurnAmount); err != nil {
			return nil, err
		}
		return []Attribute{
			Attr("owner", owner),
			Attr("token_denom", c.cfg.TokenDenom),
			Attr("min_burn_amount", c.cfg.MinBurnAmount.String()),
		}, nil
	})
}

// execute runs fn in one store transaction after the non-payable check. Nothing fn
// writes survives an error.
func (c *Controller) execute(ctx context.Context, action string, info MessageInfo, payable bool, fn func(ctx context.Context, tx Store) ([]Attribute, error)) (*Response, error) {
	return c.executeIssuing(ctx, action, info, payable, func(ctx context.Context, tx Store, _ IssuerTx) ([]Attribute, error) {
		return fn(ctx, tx)
	})
}

// executeIssuing is execute for operations that move balances. Issuer effects staged by
// fn are committed only after the store transaction commits, and rolled back otherwise.
func (c *Controller) executeIssuing(ctx context.Context, action string, info MessageInfo, payable bool, fn func(ctx context.Context, tx Store, itx IssuerTx) ([]Attribute, error)) (*Response, error) {
	var attrs []Attribute
	err := func() error {
		if !payable {
			if err := nonPayable(info); err != nil {
				return err
			}
		}
		itx := c.issuer.Begin(ctx)
		if err := c.store.Transaction(ctx, func(tx Store) error {
			var err error
			attrs, err = fn(ctx, tx, itx)
			return err
		}); err != nil {
			itx.Rollback()
			return err
		}
		itx.Commit()
		return nil
	}()
	metrics.ObserveOperation(action, err)
	if err != nil {
		c.log.Warn().Err(err).Str("action", action).Str("sender", info.Sender).Msg("operation rejected")
		return nil, err
	}

	res := NewResponse(action, attrs...)
	ev := c.log.Info().Str("sender", info.Sender)
	for _, a := range res.Attributes {
		ev = ev.Str(a.Key, a.Value)
	}
	ev.Msg("operation committed")

	c.publish(ctx, action, info, res)
	return res, nil
}

// publish hands a committed operation to the event sink. The operation already
// succeeded, so a sink failure is only logged.
func (c *Controller) publish(ctx context.Context, action string, info MessageInfo, res *Response) {
	if c.sink == nil {
		return
	}
	event := &Event{
		Action:     action,
		Sender:     info.Sender,
		Attributes: res.Attributes,
		Timestamp:  c.clk.Now().Unix(),
	}
	if err := c.sink.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.Inc()
		c.log.Error().Err(err).Str("action", action).Msg("publish event")
	}
}

func (c *Controller) clampLimit(limit uint32) int {
	return utils.ClampLimit(limit, c.cfg.DefaultLimit, c.cfg.MaxLimit)
}

func (c *Controller) observeMinted(amount decimal.Decimal) {
	metrics.MintedAmountTotal.Add(amount.InexactFloat64())
}

func (c *Controller) observeBurned(amount decimal.Decimal) {
	metrics.BurnedAmountTotal.Add(amount.InexactFloat64())
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) GetTokenDenom() string {
	return c.cfg.TokenDenom
}

func (c *Controller) validate(addresses ...string) error {
	for _, address := range addresses {
		if err := c.validateAddress(address); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
