package core

import (
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Config struct {
	TokenDenom    string          `env:"TOKEN_DENOM" envDefault:"uwbtc"`
	DefaultLimit  uint32          `env:"DEFAULT_LIMIT" envDefault:"10"`
	MaxLimit      uint32          `env:"MAX_LIMIT" envDefault:"100"`
	MinBurnAmount decimal.Decimal `env:"MIN_BURN_AMOUNT" envDefault:"0"`

	// RequireMatchingMerchantDepositAddress makes mint requests also check the
	// merchant-declared deposit address. The custodian-declared one is always checked.
	RequireMatchingMerchantDepositAddress bool `env:"REQUIRE_MATCHING_MERCHANT_DEPOSIT_ADDRESS" envDefault:"false"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"custody"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

func DefaultConfig() Config {
	return Config{
		TokenDenom:        DEFAULT_TOKEN_DENOM,
		DefaultLimit:      DEFAULT_LIMIT,
		MaxLimit:          MAX_LIMIT,
		MinBurnAmount:     decimal.Zero,
		NATSSubjectPrefix: "custody",
		LogLevel:          "info",
	}
}

// LoadConfig reads CUSTODY_* environment variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "CUSTODY_"})
	if err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TokenDenom == "" {
		return errors.New("token denom is required")
	}
	if c.DefaultLimit == 0 || c.MaxLimit == 0 {
		return errors.New("pagination limits must be positive")
	}
	if c.DefaultLimit > c.MaxLimit {
		return errors.Errorf("default limit %d exceeds max limit %d", c.DefaultLimit, c.MaxLimit)
	}
	if c.MinBurnAmount.IsNegative() || !c.MinBurnAmount.IsInteger() {
		return errors.Wrapf(ErrInvalidAmount, "min burn amount %s", c.MinBurnAmount)
	}
	return nil
}

func (c Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
