// Package config provides configuration management.
//
// Configuration is loaded once at start-up and passed to constructors
// explicitly; there is no process-wide instance.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"blind-configurator/core/measure"
	"blind-configurator/core/pricing"
	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
	"blind-configurator/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "BLIND_"

// Cart hand-off strategies
const (
	StrategyLineItem       = "line-item"
	StrategyDynamicVariant = "dynamic-variant"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Pricing contains the price table and surcharges
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`

	// Limits bounds the measurement step
	Limits LimitsConfig `json:"limits" yaml:"limits"`

	// Cart contains the storefront hand-off settings
	Cart CartConfig `json:"cart" yaml:"cart"`

	// Server contains HTTP settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Output contains CLI output settings
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency labels every amount
	Currency types.Currency `json:"currency" yaml:"currency"`

	// TableFile is an HCL price table; empty uses the built-in table
	TableFile string `json:"table_file,omitempty" yaml:"table_file,omitempty"`

	// Policy holds the flat surcharges
	Policy pricing.Policy `json:"policy" yaml:"policy"`
}

// LimitsConfig contains the accepted measurement ranges in millimetres
type LimitsConfig struct {
	MinWidth  int `json:"min_width" yaml:"min_width"`
	MaxWidth  int `json:"max_width" yaml:"max_width"`
	MinHeight int `json:"min_height" yaml:"min_height"`
	MaxHeight int `json:"max_height" yaml:"max_height"`
}

// CartConfig contains the storefront hand-off settings
type CartConfig struct {
	// Strategy is line-item or dynamic-variant
	Strategy string `json:"strategy" yaml:"strategy"`

	// StorefrontURL is the shop's base URL; empty means dry-run
	StorefrontURL string `json:"storefront_url" yaml:"storefront_url"`

	// AppURL hosts the variant creation endpoint
	AppURL string `json:"app_url,omitempty" yaml:"app_url,omitempty"`

	// APIKey authorises variant creation
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ProductID is the custom blind product that dynamic variants are created under
	ProductID int64 `json:"product_id" yaml:"product_id"`

	// BaseVariantID is the fixed variant used by the line-item strategy
	BaseVariantID int64 `json:"base_variant_id" yaml:"base_variant_id"`

	// RemoteVariantID is the additional remote product
	RemoteVariantID int64 `json:"remote_variant_id" yaml:"remote_variant_id"`

	// SmartHubVariantID is the smart hub product
	SmartHubVariantID int64 `json:"smart_hub_variant_id" yaml:"smart_hub_variant_id"`

	// SKUPrefix prefixes generated variant SKUs
	SKUPrefix string `json:"sku_prefix" yaml:"sku_prefix"`

	// Timeout bounds each storefront call
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig contains HTTP settings
type ServerConfig struct {
	Addr       string   `json:"addr" yaml:"addr"`
	SessionTTL Duration `json:"session_ttl" yaml:"session_ttl"`

	// AllowedOrigins are the storefront origins allowed to call the API
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is cli, json or markdown
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// ShowDetails prints line-item formulas
	ShowDetails bool `json:"show_details" yaml:"show_details"`

	// Color enables ANSI colours in terminal output
	Color bool `json:"color" yaml:"color"`
}

// Default returns a default configuration
func Default() *Config {
	w, h := measure.DefaultWidthBounds, measure.DefaultHeightBounds
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Currency: types.CurrencyAUD,
			Policy:   pricing.DefaultPolicy(),
		},
		Limits: LimitsConfig{
			MinWidth:  w.Min,
			MaxWidth:  w.Max,
			MinHeight: h.Min,
			MaxHeight: h.Max,
		},
		Cart: CartConfig{
			Strategy:  StrategyLineItem,
			SKUPrefix: "CUSTOM-BLIND",
			Timeout:   Duration(8 * time.Second),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			SessionTTL:   Duration(2 * time.Hour),
			MaxBodyBytes: 1 << 20,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
			Color:         true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the per-user configuration file location
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".blind-configurator", "config.yaml")
}

// Load loads configuration from a JSON or YAML file. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	cfg := Default()
	if err := unmarshal(path, data, cfg); err != nil {
		return nil, errors.Config("failed to parse config", err).WithContext("path", path)
	}
	return cfg, nil
}

// Save saves configuration to a file, choosing the encoding by extension
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Config("failed to create config directory", err)
	}

	data, err := marshal(path, c)
	if err != nil {
		return errors.Config("failed to encode config", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Encode renders the configuration in the named format (json or yaml)
func (c *Config) Encode(format string) ([]byte, error) {
	return marshal("config."+format, c)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func marshal(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// MeasureLimits converts the limits section for the wizard
func (c *Config) MeasureLimits() measure.Limits {
	return measure.Limits{
		Width:  measure.Bounds{Min: c.Limits.MinWidth, Max: c.Limits.MaxWidth},
		Height: measure.Bounds{Min: c.Limits.MinHeight, Max: c.Limits.MaxHeight},
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	p := errors.NewProblems(errors.TypeConfig, "invalid configuration")

	switch c.Pricing.Currency {
	case types.CurrencyAUD, types.CurrencyUSD, types.CurrencyNZD, types.CurrencyGBP:
	default:
		p.Add("pricing.currency", "unsupported currency %q", c.Pricing.Currency)
	}
	pol := c.Pricing.Policy
	for name, fee := range map[string]decimal.Decimal{
		"pricing.policy.minimum_price":             pol.MinimumPrice,
		"pricing.policy.measurement_guarantee_fee": pol.MeasurementGuaranteeFee,
		"pricing.policy.motorised_fee":             pol.MotorisedFee,
		"pricing.policy.additional_remote_fee":     pol.AdditionalRemoteFee,
		"pricing.policy.smart_hub_fee":             pol.SmartHubFee,
	} {
		if fee.IsNegative() {
			p.Add(name, "must not be negative, got %s", fee)
		}
	}

	l := c.Limits
	if l.MinWidth <= 0 || l.MaxWidth < l.MinWidth {
		p.Add("limits.width", "range %d-%d is empty", l.MinWidth, l.MaxWidth)
	}
	if l.MinHeight <= 0 || l.MaxHeight < l.MinHeight {
		p.Add("limits.height", "range %d-%d is empty", l.MinHeight, l.MaxHeight)
	}

	switch c.Cart.Strategy {
	case StrategyLineItem:
	case StrategyDynamicVariant:
		if c.Cart.StorefrontURL != "" && (c.Cart.AppURL == "" || c.Cart.APIKey == "") {
			p.Add("cart.app_url", "dynamic-variant needs app_url and api_key")
		}
	default:
		p.Add("cart.strategy", "unknown strategy %q", c.Cart.Strategy)
	}
	if c.Cart.Timeout <= 0 {
		p.Add("cart.timeout", "must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		p.Add("server.max_body_bytes", "must be positive")
	}

	switch c.Output.DefaultFormat {
	case "cli", "json", "markdown":
	default:
		p.Add("output.default_format", "unknown format %q", c.Output.DefaultFormat)
	}

	return p.Err()
}

// ApplyEnv overrides fields from BLIND_* variables. lookup is os.LookupEnv
// in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	p := errors.NewProblems(errors.TypeConfig, "invalid environment override")

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				p.Add(EnvPrefix+name, "not an integer: %q", v)
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				p.Add(EnvPrefix+name, "not a duration: %q", v)
				return
			}
			*dst = Duration(d)
		}
	}

	if v, ok := lookup(EnvPrefix + "CURRENCY"); ok {
		c.Pricing.Currency = types.Currency(strings.ToUpper(v))
	}
	str("PRICE_TABLE", &c.Pricing.TableFile)
	str("CART_STRATEGY", &c.Cart.Strategy)
	str("STOREFRONT_URL", &c.Cart.StorefrontURL)
	str("APP_URL", &c.Cart.AppURL)
	str("API_KEY", &c.Cart.APIKey)
	num("PRODUCT_ID", &c.Cart.ProductID)
	num("BASE_VARIANT_ID", &c.Cart.BaseVariantID)
	num("REMOTE_VARIANT_ID", &c.Cart.RemoteVariantID)
	num("SMART_HUB_VARIANT_ID", &c.Cart.SmartHubVariantID)
	dur("CART_TIMEOUT", &c.Cart.Timeout)
	str("ADDR", &c.Server.Addr)
	dur("SESSION_TTL", &c.Server.SessionTTL)
	if v, ok := lookup(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, origin)
			}
		}
	}
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	return p.Err()
}

// Duration is a time.Duration that encodes as a Go duration string
type Duration time.Duration

// Std returns the standard library duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the Go duration form
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
