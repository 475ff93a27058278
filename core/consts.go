package core

import (
	"github.com/shopspring/decimal"
)

const (
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 100

	DEFAULT_TOKEN_DENOM = "uwbtc"

	MIN_ADDRESS_LENGTH = 3
	MAX_ADDRESS_LENGTH = 128
)

var (
	ZERO_AMOUNT = decimal.Zero
)
