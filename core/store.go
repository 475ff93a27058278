package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store lookups report a missing entry with gorm.ErrRecordNotFound, whatever the backend.
type (
	Store interface {
		RoleStore
		DepositAddressStore
		ParamStore
		RequestStore

		// Transaction runs fn against a transactional view of the store. Writes made
		// through that view are committed only if fn returns nil.
		Transaction(ctx context.Context, fn func(tx Store) error) error
	}

	RoleStore interface {
		GetOwner(ctx context.Context) (string, error)
		SetOwner(ctx context.Context, address string) error
		GetCustodian(ctx context.Context) (string, error)
		SetCustodian(ctx context.Context, address string) error

		AddMerchant(ctx context.Context, address string) error
		RemoveMerchant(ctx context.Context, address string) error
		HasMerchant(ctx context.Context, address string) (bool, error)
		// ListMerchants returns addresses in ascending order, strictly after startAfter.
		ListMerchants(ctx context.Context, startAfter string, limit int) ([]string, error)
	}

	DepositAddressStore interface {
		GetCustodianDepositAddress(ctx context.Context, merchant string) (string, error)
		SetCustodianDepositAddress(ctx context.Context, merchant, address string) error
		GetMerchantDepositAddress(ctx context.Context, merchant string) (string, error)
		SetMerchantDepositAddress(ctx context.Context, merchant, address string) error
	}

	ParamStore interface {
		GetPaused(ctx context.Context) (bool, error)
		SetPaused(ctx context.Context, paused bool) error
		GetMinBurnAmount(ctx context.Context) (decimal.Decimal, error)
		SetMinBurnAmount(ctx context.Context, amount decimal.Decimal) error
	}

	RequestStore interface {
		// IncrNonce bumps the ledger counter and returns the new value; the first call returns 1.
		IncrNonce(ctx context.Context, ledger Ledger) (uint64, error)
		GetNonce(ctx context.Context, ledger Ledger) (uint64, error)

		CreateRequestRecord(ctx context.Context, record *RequestRecord) error
		UpdateRequestRecord(ctx context.Context, record *RequestRecord) error
		GetRequestRecordByHash(ctx context.Context, ledger Ledger, hash string) (*RequestRecord, error)
		GetRequestRecordByNonce(ctx context.Context, ledger Ledger, nonce uint64) (*RequestRecord, error)
		// ListRequestRecords returns up to limit records with nonce > startAfterNonce, ascending.
		ListRequestRecords(ctx context.Context, ledger Ledger, startAfterNonce uint64, limit int) ([]*RequestRecord, error)
		CountRequestRecords(ctx context.Context, ledger Ledger) (int64, error)
	}

	// Issuer is the balance ledger that actually credits and debits holders. Its
	// effects are staged on an IssuerTx and take hold only once the store commits.
	Issuer interface {
		Begin(ctx context.Context) IssuerTx
	}

	IssuerTx interface {
		// Credit stages a mint of amount to recipient.
		Credit(ctx context.Context, recipient string, amount decimal.Decimal) error
		// Debit reserves amount out of the funds attached to the current call. It fails
		// when they fall short; the reserved funds are burned on Commit.
		Debit(ctx context.Context, amount decimal.Decimal) error
		// Commit applies the staged effects and must not fail.
		Commit()
		// Rollback drops staged credits and returns reserved funds to the call.
		Rollback()
	}

	EventSink interface {
		Publish(ctx context.Context, event *Event) error
	}
)
