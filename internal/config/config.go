// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"dira-price/core/pricing"
	"dira-price/internal/errors"
	"dira-price/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DIRA_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Defaults are the apartment parameters used when not given explicitly
	Defaults DefaultsConfig `json:"defaults"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains web dashboard configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// DefaultsConfig holds default apartment parameters.
// The formula constants (reduction, caps, weights) are not configurable.
type DefaultsConfig struct {
	ApartmentSize float64 `json:"apartment_size" env:"APARTMENT_SIZE"`
	BalconySize   float64 `json:"balcony_size" env:"BALCONY_SIZE"`
	StorageSize   float64 `json:"storage_size" env:"STORAGE_SIZE"`
	ParkingSpaces int     `json:"parking_spaces" env:"PARKING_SPACES"`
	AreaType      string  `json:"area_type" env:"AREA_TYPE"`

	// VATPercent is a percentage, e.g. 18
	VATPercent float64 `json:"vat_percent" env:"VAT_PERCENT"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the default CLI output format
	Format string `json:"format" env:"FORMAT"`

	// NoColor disables ANSI colors in text output
	NoColor bool `json:"no_color" env:"NO_COLOR"`

	// CurrencySymbol prefixes money values
	CurrencySymbol string `json:"currency_symbol" env:"CURRENCY_SYMBOL"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" env:"ADDR"`

	// RequestTimeoutSeconds bounds each request
	RequestTimeoutSeconds int `json:"request_timeout_seconds" env:"REQUEST_TIMEOUT_SECONDS"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" env:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// RequestTimeout returns the per-request timeout
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown timeout
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Defaults: DefaultsConfig{
			ApartmentSize: pricing.DefaultApartmentSize,
			BalconySize:   pricing.DefaultBalconySize,
			StorageSize:   pricing.DefaultStorageSize,
			ParkingSpaces: pricing.DefaultParkingSpaces,
			AreaType:      string(pricing.DefaultAreaType),
			VATPercent:    pricing.DefaultVATPercent,
		},
		Output: OutputConfig{
			Format:         "text",
			NoColor:        false,
			CurrencySymbol: "₪",
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			RequestTimeoutSeconds:  30,
			ShutdownTimeoutSeconds: 10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.dira-price.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dira-price.json"
	}
	return filepath.Join(homeDir, ".dira-price.json")
}

// Load loads configuration from a file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to parse config", err).WithContext("path", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv loads an optional .env file and then applies DIRA_* overrides
func (c *Config) ApplyEnv(dotenvPath string) error {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return errors.Config("failed to load .env file", err).WithContext("path", dotenvPath)
			}
		}
	}

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Config("failed to parse environment", err)
	}
	return c.Validate()
}

// Validate checks configuration values
func (c *Config) Validate() error {
	d := c.Defaults
	if d.ApartmentSize <= 0 {
		return errors.Config("defaults.apartment_size must be positive", nil)
	}
	if d.BalconySize < 0 || d.StorageSize < 0 || d.ParkingSpaces < 0 {
		return errors.Config("defaults sizes cannot be negative", nil)
	}
	if d.VATPercent < 0 {
		return errors.Config("defaults.vat_percent cannot be negative", nil)
	}
	if _, err := pricing.ParseAreaType(d.AreaType); err != nil {
		return errors.Config("invalid defaults.area_type", err)
	}
	switch c.Output.Format {
	case "text", "json", "csv", "xlsx":
	default:
		return errors.Config("output.format must be one of text, json, csv, xlsx", nil).
			WithContext("format", c.Output.Format)
	}
	if c.Server.RequestTimeoutSeconds < 0 || c.Server.ShutdownTimeoutSeconds < 0 {
		return errors.Config("server timeouts cannot be negative", nil)
	}
	return nil
}

// Input builds a pricing input from the defaults and the given prices
func (d DefaultsConfig) Input(mainPrice, currentPrice decimal.Decimal) (pricing.Input, error) {
	area, err := pricing.ParseAreaType(d.AreaType)
	if err != nil {
		return pricing.Input{}, err
	}
	return pricing.Input{
		MainPricePerMeter:    mainPrice,
		CurrentPricePerMeter: currentPrice,
		ApartmentSize:        decimal.NewFromFloat(d.ApartmentSize),
		BalconySize:          decimal.NewFromFloat(d.BalconySize),
		StorageSize:          decimal.NewFromFloat(d.StorageSize),
		ParkingSpaces:        d.ParkingSpaces,
		AreaType:             area,
		VATRate:              pricing.VATRateFromPercent(decimal.NewFromFloat(d.VATPercent)),
	}, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
