package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Cart    CartConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Cart.TaxRate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPSMART_APP_ENV" default:"dev"`
	Port         string `envconfig:"SHOPSMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPSMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPSMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points the storefront at the remote catalog API.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"SHOPSMART_CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	RequestTimeout time.Duration `envconfig:"SHOPSMART_CATALOG_REQUEST_TIMEOUT" default:"10s"`
}

// CartConfig tunes the session cart lifecycle and the presentation tax rate.
type CartConfig struct {
	TaxRateValue  string        `envconfig:"SHOPSMART_CART_TAX_RATE" default:"0.07"`
	SessionTTL    time.Duration `envconfig:"SHOPSMART_CART_SESSION_TTL" default:"24h"`
	SweepInterval time.Duration `envconfig:"SHOPSMART_CART_SWEEP_INTERVAL" default:"5m"`
}

// TaxRate parses the configured tax rate. Rates outside [0, 1) are rejected.
func (c CartConfig) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRateValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing cart tax rate: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("cart tax rate %s out of range", rate)
	}
	return rate, nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHOPSMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
