package gormstore

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DomeLiquid/custody/core"
)

// Store persists controller state through gorm. Missing rows surface as
// gorm.ErrRecordNotFound.
type Store struct {
	db *gorm.DB
}

var _ core.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&paramRow{},
		&merchantRow{},
		&depositAddressRow{},
		&requestNonceRow{},
		&requestRecordRow{},
	)
}

func (s *Store) Transaction(ctx context.Context, fn func(tx core.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) getParam(ctx context.Context, key string) (string, error) {
	var row paramRow
	if err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *Store) setParam(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&paramRow{Key: key, Value: value}).Error
}

func (s *Store) GetOwner(ctx context.Context) (string, error) {
	return s.getParam(ctx, paramOwner)
}

func (s *Store) SetOwner(ctx context.Context, address string) error {
	return s.setParam(ctx, paramOwner, address)
}

func (s *Store) GetCustodian(ctx context.Context) (string, error) {
	return s.getParam(ctx, paramCustodian)
}

func (s *Store) SetCustodian(ctx context.Context, address string) error {
	return s.setParam(ctx, paramCustodian, address)
}

// GetPaused reports false until a value is set.
func (s *Store) GetPaused(ctx context.Context) (bool, error) {
	value, err := s.getParam(ctx, paramPaused)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	paused, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(err, "param %s", paramPaused)
	}
	return paused, nil
}

func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	return s.setParam(ctx, paramPaused, strconv.FormatBool(paused))
}

// GetMinBurnAmount reports zero until a value is set.
func (s *Store) GetMinBurnAmount(ctx context.Context) (decimal.Decimal, error) {
	value, err := s.getParam(ctx, paramMinBurnAmount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "param %s", paramMinBurnAmount)
	}
	return amount, nil
}

func (s *Store) SetMinBurnAmount(ctx context.Context, amount decimal.Decimal) error {
	return s.setParam(ctx, paramMinBurnAmount, amount.String())
}

func (s *Store) AddMerchant(ctx context.Context, address string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&merchantRow{Address: address}).Error
}

func (s *Store) RemoveMerchant(ctx context.Context, address string) error {
	return s.db.WithContext(ctx).Where("address = ?", address).Delete(&merchantRow{}).Error
}

func (s *Store) HasMerchant(ctx context.Context, address string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&merchantRow{}).Where("address = ?", address).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListMerchants(ctx context.Context, startAfter string, limit int) ([]string, error) {
	var addresses []string
	err := s.db.WithContext(ctx).Model(&merchantRow{}).
		Where("address > ?", startAfter).
		Order("address ASC").
		Limit(limit).
		Pluck("address", &addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *Store) getDepositAddress(ctx context.Context, merchant, kind string) (string, error) {
	var row depositAddressRow
	if err := s.db.WithContext(ctx).Where("merchant = ? AND kind = ?", merchant, kind).Take(&row).Error; err != nil {
		return "", err
	}
	return row.Address, nil
}

func (s *Store) setDepositAddress(ctx context.Context, merchant, kind, address string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "merchant"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"address"}),
	}).Create(&depositAddressRow{Merchant: merchant, Kind: kind, Address: address}).Error
}

func (s *Store) GetCustodianDepositAddress(ctx context.Context, merchant string) (string, error) {
	return s.getDepositAddress(ctx, merchant, depositAddressCustodian)
}

func (s *Store) SetCustodianDepositAddress(ctx context.Context, merchant, address string) error {
	return s.setDepositAddress(ctx, merchant, depositAddressCustodian, address)
}

func (s *Store) GetMerchantDepositAddress(ctx context.Context, merchant string) (string, error) {
	return s.getDepositAddress(ctx, merchant, depositAddressMerchant)
}

func (s *Store) SetMerchantDepositAddress(ctx context.Context, merchant, address string) error {
	return s.setDepositAddress(ctx, merchant, depositAddressMerchant, address)
}
