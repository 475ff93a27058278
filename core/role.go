package core

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

type Role uint8

const (
	RoleOwner Role = iota + 1
	RoleCustodian
	RoleMerchant
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleCustodian:
		return "Custodian"
	case RoleMerchant:
		return "Merchant"
	default:
		return "Unknown"
	}
}

// AddressValidator rejects malformed account identifiers.
type AddressValidator func(address string) error

// addressCheck validates every address it is given; gated helpers run it after the
// role check.
type addressCheck func(addresses ...string) error

// ValidateAddress accepts lowercase alphanumeric identifiers such as bech32 account
// addresses.
func ValidateAddress(address string) error {
	if len(address) < MIN_ADDRESS_LENGTH || len(address) > MAX_ADDRESS_LENGTH {
		return errors.Wrapf(ErrInvalidAddress, "%q", address)
	}
	for _, c := range address {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return errors.Wrapf(ErrInvalidAddress, "%q", address)
		}
	}
	return nil
}

func validateDepositAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errors.Wrap(ErrInvalidAddress, "empty deposit address")
	}
	return nil
}

// HasRole reports whether address currently holds role.
func HasRole(ctx context.Context, store RoleStore, role Role, address string) (bool, error) {
	switch role {
	case RoleOwner:
		return isSingleton(store.GetOwner(ctx))(address)
	case RoleCustodian:
		return isSingleton(store.GetCustodian(ctx))(address)
	case RoleMerchant:
		return store.HasMerchant(ctx, address)
	default:
		return false, nil
	}
}

func isSingleton(holder string, err error) func(string) (bool, error) {
	return func(address string) (bool, error) {
		if err != nil {
			if IsRecordNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return holder == address, nil
	}
}

// AllowOnly succeeds iff caller holds at least one of roles.
func AllowOnly(ctx context.Context, store RoleStore, roles []Role, caller string) error {
	for _, role := range roles {
		ok, err := HasRole(ctx, store, role, caller)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrUnauthorized
}

func initializeOwner(ctx context.Context, store RoleStore, owner string) error {
	_, err := store.GetOwner(ctx)
	if err == nil {
		return ErrAlreadyInstantiated
	}
	if !IsRecordNotFound(err) {
		return err
	}
	return store.SetOwner(ctx, owner)
}

func transferOwnership(ctx context.Context, store RoleStore, validate addressCheck, caller, newOwner string) error {
	if err := AllowOnly(ctx, store, []Role{RoleOwner}, caller); err != nil {
		return err
	}
	if err := validate(newOwner); err != nil {
		return err
	}
	return store.SetOwner(ctx, newOwner)
}

func setCustodian(ctx context.Context, store RoleStore, validate addressCheck, caller, address string) error {
	if err := AllowOnly(ctx, store, []Role{RoleOwner}, caller); err != nil {
		return err
	}
	if err := validate(address); err != nil {
		return err
	}
	return store.SetCustodian(ctx, address)
}

// addMerchant is idempotent: membership is a set keyed by address.
func addMerchant(ctx context.Context, store RoleStore, validate addressCheck, caller, address string) error {
	if err := AllowOnly(ctx, store, []Role{RoleOwner}, caller); err != nil {
		return err
	}
	if err := validate(address); err != nil {
		return err
	}
	return store.AddMerchant(ctx, address)
}

func removeMerchant(ctx context.Context, store RoleStore, validate addressCheck, caller, address string) error {
	if err := AllowOnly(ctx, store, []Role{RoleOwner}, caller); err != nil {
		return err
	}
	if err := validate(address); err != nil {
		return err
	}
	return store.RemoveMerchant(ctx, address)
}

func (c *Controller) TransferOwnership(ctx context.Context, info MessageInfo, newOwner string) (*Response, error) {
	return c.execute(ctx, "transfer_ownership", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := transferOwnership(ctx, tx, c.validate, info.Sender, newOwner); err != nil {
			return nil, err
		}
		return []Attribute{Attr("previous_owner", info.Sender), Attr("new_owner", newOwner)}, nil
	})
}

// SetCustodian replaces the custodian. Only one address holds the role at a time.
func (c *Controller) SetCustodian(ctx context.Context, info MessageInfo, address string) (*Response, error) {
	return c.execute(ctx, "set_custodian", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := setCustodian(ctx, tx, c.validate, info.Sender, address); err != nil {
			return nil, err
		}
		return []Attribute{Attr("address", address)}, nil
	})
}

func (c *Controller) AddMerchant(ctx context.Context, info MessageInfo, address string) (*Response, error) {
	return c.execute(ctx, "add_merchant", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := addMerchant(ctx, tx, c.validate, info.Sender, address); err != nil {
			return nil, err
		}
		return []Attribute{Attr("address", address)}, nil
	})
}

func (c *Controller) RemoveMerchant(ctx context.Context, info MessageInfo, address string) (*Response, error) {
	return c.execute(ctx, "remove_merchant", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := removeMerchant(ctx, tx, c.validate, info.Sender, address); err != nil {
			return nil, err
		}
		return []Attribute{Attr("address", address)}, nil
	})
}

func (c *Controller) GetOwner(ctx context.Context) (string, error) {
	owner, err := c.store.GetOwner(ctx)
	if err != nil {
		return "", notFound(err, "owner", "")
	}
	return owner, nil
}

func (c *Controller) IsOwner(ctx context.Context, address string) (bool, error) {
	return HasRole(ctx, c.store, RoleOwner, address)
}

func (c *Controller) GetCustodian(ctx context.Context) (string, error) {
	custodian, err := c.store.GetCustodian(ctx)
	if err != nil {
		return "", notFound(err, "custodian", "")
	}
	return custodian, nil
}

func (c *Controller) IsCustodian(ctx context.Context, address string) (bool, error) {
	return HasRole(ctx, c.store, RoleCustodian, address)
}

func (c *Controller) IsMerchant(ctx context.Context, address string) (bool, error) {
	return HasRole(ctx, c.store, RoleMerchant, address)
}

// ListMerchants pages through merchants in ascending address order. An empty
// startAfter starts from the beginning.
func (c *Controller) ListMerchants(ctx context.Context, startAfter string, limit uint32) ([]string, error) {
	if startAfter != "" {
		if err := c.validate(startAfter); err != nil {
			return nil, err
		}
	}
	return c.store.ListMerchants(ctx, startAfter, c.clampLimit(limit))
}
