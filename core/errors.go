package core

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized                   = errors.New("Unauthorized")
	ErrUpdatableStatusExpected        = errors.New("Expect request to have updatable status")
	ErrDepositAddressByNonMerchant    = errors.New("Only merchant can be associated with deposit address")
	ErrCustodianDepositAddressMissing = errors.New("Custodian deposit address not found")
	ErrDuplicatedMerchant             = errors.New("Address is already added as merchant")
	ErrTokenTransferPaused            = errors.New("Token transfer is paused")
	ErrBurnAmountTooSmall             = errors.New("Burn amount too small")
	ErrNonPayable                     = errors.New("This message does not accept funds")

	ErrNotFound                       = errors.New("not found")
	ErrInvalidAddress                 = errors.New("invalid address")
	ErrInvalidAmount                  = errors.New("invalid amount")
	ErrInvalidFunds                   = errors.New("invalid funds")
	ErrAlreadyInstantiated            = errors.New("controller already instantiated")
	ErrMerchantDepositAddressMismatch = errors.New("merchant deposit address does not match")
	ErrInvalidMsg                     = errors.New("invalid execute message")
)

type (
	UpdatableStatusExpectedError struct {
		RequestHash string
	}

	DepositAddressAssociatedByNonMerchantError struct {
		Address string
	}

	CustodianDepositAddressNotFoundError struct {
		Merchant string
	}

	DuplicatedMerchantError struct {
		Address string
	}

	BurnAmountTooSmallError struct {
		Requested decimal.Decimal
		Min       decimal.Decimal
	}
)

func (e *UpdatableStatusExpectedError) Error() string {
	return fmt.Sprintf("Expect request to have updatable status: request_hash: %s", e.RequestHash)
}

func (e *UpdatableStatusExpectedError) Is(target error) bool {
	return target == ErrUpdatableStatusExpected
}

func (e *DepositAddressAssociatedByNonMerchantError) Error() string {
	return fmt.Sprintf("Only merchant can be associated with deposit address but %s is not a merchant", e.Address)
}

func (e *DepositAddressAssociatedByNonMerchantError) Is(target error) bool {
	return target == ErrDepositAddressByNonMerchant
}

func (e *CustodianDepositAddressNotFoundError) Error() string {
	return fmt.Sprintf("Custodian deposit address not found for merchant %s", e.Merchant)
}

func (e *CustodianDepositAddressNotFoundError) Is(target error) bool {
	return target == ErrCustodianDepositAddressMissing
}

func (e *DuplicatedMerchantError) Error() string {
	return fmt.Sprintf("Address `%s` is already added as merchant", e.Address)
}

func (e *DuplicatedMerchantError) Is(target error) bool {
	return target == ErrDuplicatedMerchant
}

func (e *BurnAmountTooSmallError) Error() string {
	return fmt.Sprintf("Burn amount too small: required at least %s, but got %s", e.Min, e.Requested)
}

func (e *BurnAmountTooSmallError) Is(target error) bool {
	return target == ErrBurnAmountTooSmall
}

// IsRecordNotFound reports whether a store lookup came back empty.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func notFound(err error, entity string, key any) error {
	if IsRecordNotFound(err) {
		return errors.Wrapf(ErrNotFound, "%s %v", entity, key)
	}
	return err
}
