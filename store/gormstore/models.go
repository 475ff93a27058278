package gormstore

const (
	paramOwner         = "owner"
	paramCustodian     = "custodian"
	paramPaused        = "paused"
	paramMinBurnAmount = "min_burn_amount"

	depositAddressCustodian = "custodian"
	depositAddressMerchant  = "merchant"
)

type paramRow struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text;not null"`
}

func (paramRow) TableName() string {
	return "custody_params"
}

type merchantRow struct {
	Address   string `gorm:"primaryKey;size:128"`
	CreatedAt int64
}

func (merchantRow) TableName() string {
	return "custody_merchants"
}

type depositAddressRow struct {
	Merchant string `gorm:"primaryKey;size:128"`
	Kind     string `gorm:"primaryKey;size:16"`
	Address  string `gorm:"type:text;not null"`
}

func (depositAddressRow) TableName() string {
	return "custody_deposit_addresses"
}

type requestNonceRow struct {
	Ledger string `gorm:"primaryKey;size:16"`
	Nonce  uint64 `gorm:"not null"`
}

func (requestNonceRow) TableName() string {
	return "custody_request_nonces"
}

type requestRecordRow struct {
	Ledger    string `gorm:"primaryKey;size:16;uniqueIndex:idx_custody_request_ledger_nonce,priority:1"`
	Hash      string `gorm:"primaryKey;size:64"`
	Nonce     uint64 `gorm:"not null;uniqueIndex:idx_custody_request_ledger_nonce,priority:2"`
	Status    string `gorm:"size:16;not null;index"`
	Data      []byte `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:false"`
	UpdatedAt int64  `gorm:"autoUpdateTime:false"`
}

func (requestRecordRow) TableName() string {
	return "custody_request_records"
}
