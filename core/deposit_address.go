package core

import (
	"context"
)

type DepositAddressPair struct {
	Custodian string `json:"custodian,omitempty"`
	Merchant  string `json:"merchant,omitempty"`
}

func setCustodianDepositAddress(ctx context.Context, store Store, validate addressCheck, caller, merchant, address string) error {
	if err := AllowOnly(ctx, store, []Role{RoleCustodian}, caller); err != nil {
		return err
	}
	if err := validate(merchant); err != nil {
		return err
	}
	if err := validateDepositAddress(address); err != nil {
		return err
	}
	ok, err := store.HasMerchant(ctx, merchant)
	if err != nil {
		return err
	}
	if !ok {
		return &DepositAddressAssociatedByNonMerchantError{Address: merchant}
	}
	return store.SetCustodianDepositAddress(ctx, merchant, address)
}

// setMerchantDepositAddress records the caller's own declared address. It is not
// compared with the custodian-declared one here.
func setMerchantDepositAddress(ctx context.Context, store Store, caller, address string) error {
	if err := AllowOnly(ctx, store, []Role{RoleMerchant}, caller); err != nil {
		return err
	}
	if err := validateDepositAddress(address); err != nil {
		return err
	}
	return store.SetMerchantDepositAddress(ctx, caller, address)
}

func getCustodianDepositAddress(ctx context.Context, store DepositAddressStore, merchant string) (string, error) {
	address, err := store.GetCustodianDepositAddress(ctx, merchant)
	if err != nil {
		if IsRecordNotFound(err) {
			return "", &CustodianDepositAddressNotFoundError{Merchant: merchant}
		}
		return "", err
	}
	return address, nil
}

func getDepositAddressPair(ctx context.Context, store DepositAddressStore, merchant string) (*DepositAddressPair, error) {
	pair := &DepositAddressPair{}
	var err error
	if pair.Custodian, err = store.GetCustodianDepositAddress(ctx, merchant); err != nil && !IsRecordNotFound(err) {
		return nil, err
	}
	if pair.Merchant, err = store.GetMerchantDepositAddress(ctx, merchant); err != nil && !IsRecordNotFound(err) {
		return nil, err
	}
	return pair, nil
}

func (c *Controller) SetCustodianDepositAddress(ctx context.Context, info MessageInfo, merchant, address string) (*Response, error) {
	return c.execute(ctx, "set_custodian_deposit_address", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := setCustodianDepositAddress(ctx, tx, c.validate, info.Sender, merchant, address); err != nil {
			return nil, err
		}
		return []Attribute{Attr("merchant", merchant), Attr("deposit_address", address)}, nil
	})
}

func (c *Controller) SetMerchantDepositAddress(ctx context.Context, info MessageInfo, address string) (*Response, error) {
	return c.execute(ctx, "set_merchant_deposit_address", info, false, func(ctx context.Context, tx Store) ([]Attribute, error) {
		if err := setMerchantDepositAddress(ctx, tx, info.Sender, address); err != nil {
			return nil, err
		}
		return []Attribute{Attr("merchant", info.Sender), Attr("deposit_address", address)}, nil
	})
}

func (c *Controller) GetCustodianDepositAddress(ctx context.Context, merchant string) (string, error) {
	return getCustodianDepositAddress(ctx, c.store, merchant)
}

func (c *Controller) GetMerchantDepositAddress(ctx context.Context, merchant string) (string, error) {
	address, err := c.store.GetMerchantDepositAddress(ctx, merchant)
	if err != nil {
		return "", notFound(err, "merchant deposit address", merchant)
	}
	return address, nil
}

func (c *Controller) GetDepositAddressPair(ctx context.Context, merchant string) (*DepositAddressPair, error) {
	return getDepositAddressPair(ctx, c.store, merchant)
}
