// Package config loads storefront settings from defaults, an optional file and STOREFRONT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

const envPrefix = "STOREFRONT"

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

type PostgresConfig struct {
	DSN           string `mapstructure:"dsn"`
	KeepRevisions int    `mapstructure:"keep_revisions"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type PricingConfig struct {
	Currency              string `mapstructure:"currency"`
	FreeShippingThreshold string `mapstructure:"free_shipping_threshold"`
	FlatShipping          string `mapstructure:"flat_shipping"`
	TaxRate               string `mapstructure:"tax_rate"`
}

// CatalogConfig points at a JSON file with the initial products and categories.
// It is only read when the catalog has never been stored.
type CatalogConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

type CheckoutConfig struct {
	PaymentDelay time.Duration `mapstructure:"payment_delay"`
	DeliveryDays int           `mapstructure:"delivery_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.keep_revisions", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "storefront")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("pricing.currency", "USD")
	v.SetDefault("pricing.free_shipping_threshold", "99")
	v.SetDefault("pricing.flat_shipping", "9.99")
	v.SetDefault("pricing.tax_rate", "0.08")
	v.SetDefault("checkout.payment_delay", 2*time.Second)
	v.SetDefault("checkout.delivery_days", 7)
	v.SetDefault("catalog.seed_file", "")
}

// Load reads the config file at path, if any, and applies environment overrides
// such as STOREFRONT_STORAGE_BACKEND or STOREFRONT_KAFKA_BROKERS (comma separated).
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("v.Unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is empty")
		}
	default:
		return fmt.Errorf("storage.backend[%s] is not valid", c.Storage.Backend)
	}

	if c.Postgres.KeepRevisions < 0 {
		return fmt.Errorf("postgres.keep_revisions is negative")
	}
	if c.Checkout.PaymentDelay < 0 {
		return fmt.Errorf("checkout.payment_delay is negative")
	}
	if c.Checkout.DeliveryDays < 1 {
		return fmt.Errorf("checkout.delivery_days must be positive")
	}

	if _, err := c.Pricing.Policy(); err != nil {
		return err
	}

	return nil
}

// KafkaBrokers drops blank entries left by an empty or trailing-comma env value.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (p PricingConfig) Policy() (pricing.Policy, error) {
	unit, err := currency.ParseISO(p.Currency)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.currency[%s] is not valid: %w", p.Currency, err)
	}

	threshold, err := decimal.NewFromString(p.FreeShippingThreshold)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.free_shipping_threshold: %w", err)
	}

	flat, err := decimal.NewFromString(p.FlatShipping)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.flat_shipping: %w", err)
	}

	rate, err := decimal.NewFromString(p.TaxRate)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.tax_rate: %w", err)
	}

	policy := pricing.Policy{
		Currency:              unit,
		FreeShippingThreshold: threshold,
		FlatShipping:          flat,
		TaxRate:               rate,
	}
	if err := policy.Validate(); err != nil {
		return pricing.Policy{}, fmt.Errorf("policy.Validate: %w", err)
	}

	return policy, nil
}
