// Package app assembles the configurator from a loaded configuration.
// Both binaries build their collaborators here so the CLI and the server
// price and submit identically.
package app

import (
	"go.uber.org/zap"

	"blind-configurator/adapters/cart"
	"blind-configurator/core/catalog"
	"blind-configurator/core/engine"
	"blind-configurator/core/pricing"
	"blind-configurator/core/store"
	"blind-configurator/core/wizard"
	"blind-configurator/internal/config"
	"blind-configurator/internal/logging"
)

// NewEngine builds an engine from cfg. A configured table file replaces the
// built-in table and keeps its own currency. Price ordering problems are
// logged, not rejected.
func NewEngine(cfg *config.Config, version string) (*engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table := pricing.DefaultTable()
	table.Currency = cfg.Pricing.Currency
	if cfg.Pricing.TableFile != "" {
		t, err := pricing.LoadTableFile(cfg.Pricing.TableFile)
		if err != nil {
			return nil, err
		}
		table = t
	}
	if err := table.CheckMonotonic(); err != nil {
		logging.Named("pricing").Warn("price table is not monotonic", zap.Error(err))
	}

	return engine.New(engine.Deps{
		Calculator: pricing.NewCalculator(table, cfg.Pricing.Policy),
		Validator:  wizard.NewValidator(cfg.MeasureLimits()),
		Catalog:    catalog.Default(),
	}, engine.Config{
		SKUPrefix: cfg.Cart.SKUPrefix,
		Version:   version,
	}), nil
}

// NewCart builds the cart adapter. Without a storefront URL it runs dry.
func NewCart(cfg *config.Config, logger *zap.Logger) *cart.Adapter {
	cc := cart.DefaultConfig()
	cc.Strategy = cart.Strategy(cfg.Cart.Strategy)
	cc.StorefrontURL = cfg.Cart.StorefrontURL
	cc.AppURL = cfg.Cart.AppURL
	cc.APIKey = cfg.Cart.APIKey
	cc.ProductID = cfg.Cart.ProductID
	cc.BaseVariantID = cfg.Cart.BaseVariantID
	cc.RemoteVariantID = cfg.Cart.RemoteVariantID
	cc.SmartHubVariantID = cfg.Cart.SmartHubVariantID
	if cfg.Cart.Timeout > 0 {
		cc.Timeout = cfg.Cart.Timeout.Std()
	}
	return cart.New(cc, logger)
}

// NewSessions builds the session registry for eng
func NewSessions(cfg *config.Config, eng *engine.Engine) *store.Registry {
	return store.NewRegistry(store.RegistryOptions{
		Validator: eng.Validator(),
		TTL:       cfg.Server.SessionTTL.Std(),
	})
}
