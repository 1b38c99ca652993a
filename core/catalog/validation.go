// Package catalog - Configuration validation
// Ensures a configuration only references options that are on sale.
package catalog

import (
	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

// ValidationRule checks one aspect of a configuration against the catalog
type ValidationRule func(c *Catalog, cfg types.Configuration, p *errors.Problems)

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateKnownOption(KindFrameColor, func(cfg types.Configuration) string { return cfg.FrameColor }),
		validateKnownOption(KindFabricType, func(cfg types.Configuration) string { return cfg.FabricType }),
		validateKnownOption(KindMount, func(cfg types.Configuration) string { return cfg.MountType }),
		validateKnownOption(KindControl, func(cfg types.Configuration) string { return cfg.ControlType }),
		validateFabricColor,
	}
}

// Validate checks a configuration with the default rules. Empty fields are
// left to the wizard's step checks and are not reported here.
func (c *Catalog) Validate(cfg types.Configuration) error {
	return c.ValidateWith(cfg, DefaultValidationRules())
}

// ValidateWith checks a configuration against the given rules
func (c *Catalog) ValidateWith(cfg types.Configuration, rules []ValidationRule) error {
	p := errors.NewProblems(errors.TypeInput, "configuration references unknown options")
	for _, rule := range rules {
		rule(c, cfg, p)
	}
	return p.Err()
}

func validateKnownOption(kind Kind, field func(types.Configuration) string) ValidationRule {
	return func(c *Catalog, cfg types.Configuration, p *errors.Problems) {
		id := field(cfg)
		if id == "" || c.Has(kind, id) {
			return
		}
		p.Add(kind.String(), "unknown %s %q", kind, id)
	}
}

// validateFabricColor ensures the colour belongs to the selected fabric type
func validateFabricColor(c *Catalog, cfg types.Configuration, p *errors.Problems) {
	if cfg.FabricColor == "" {
		return
	}
	opt, ok := c.Get(KindFabricColor, cfg.FabricColor)
	if !ok {
		p.Add(KindFabricColor.String(), "unknown fabric colour %q", cfg.FabricColor)
		return
	}
	if cfg.FabricType != "" && opt.Parent != cfg.FabricType {
		p.Add(KindFabricColor.String(), "fabric colour %q is not offered in %q", cfg.FabricColor, cfg.FabricType)
	}
}
