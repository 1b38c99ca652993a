// Package engine provides the API-primary configurator engine.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"fmt"
	"strings"
	"time"

	"blind-configurator/core/catalog"
	"blind-configurator/core/determinism"
	"blind-configurator/core/measure"
	"blind-configurator/core/pricing"
	"blind-configurator/core/types"
	"blind-configurator/core/wizard"
	"blind-configurator/internal/errors"
)

// DefaultSKUPrefix prefixes generated variant SKUs
const DefaultSKUPrefix = "CUSTOM-BLIND"

// Engine is the primary API for quoting and validating configurations.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	calculator *pricing.Calculator
	validator  *wizard.Validator
	catalog    *catalog.Catalog
	config     Config
}

// Config configures the engine
type Config struct {
	// SKUPrefix prefixes generated SKUs
	SKUPrefix string

	// Version is stamped on every quote
	Version string

	// Now is the clock; nil means time.Now
	Now func() time.Time
}

// Deps are the engine's collaborators. Nil fields use the shipped defaults.
type Deps struct {
	Calculator *pricing.Calculator
	Validator  *wizard.Validator
	Catalog    *catalog.Catalog
}

// New creates an engine
func New(deps Deps, config Config) *Engine {
	if deps.Calculator == nil {
		deps.Calculator = pricing.NewDefaultCalculator()
	}
	if deps.Validator == nil {
		deps.Validator = wizard.NewValidator(measure.DefaultLimits())
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if config.SKUPrefix == "" {
		config.SKUPrefix = DefaultSKUPrefix
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Engine{
		calculator: deps.Calculator,
		validator:  deps.Validator,
		catalog:    deps.Catalog,
		config:     config,
	}
}

// Calculator returns the pricing calculator
func (e *Engine) Calculator() *pricing.Calculator { return e.calculator }

// Validator returns the step validator
func (e *Engine) Validator() *wizard.Validator { return e.validator }

// Catalog returns the option catalog
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// StepStatus is one wizard step with its current validity
type StepStatus struct {
	ID       wizard.StepID `json:"id"`
	Title    string        `json:"title"`
	Optional bool          `json:"optional"`
	Valid    bool          `json:"valid"`
}

// Quote is the complete priced view of one configuration
type Quote struct {
	Configuration types.Configuration    `json:"configuration"`
	Breakdown     types.PricingBreakdown `json:"breakdown"`
	LineItems     []types.LineItem       `json:"line_items"`
	Fingerprint   string                 `json:"fingerprint"`
	SKU           string                 `json:"sku"`
	Steps         []StepStatus           `json:"steps"`
	Ready         bool                   `json:"ready"`
	Problems      []string               `json:"problems,omitempty"`
	Metadata      Metadata               `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version,omitempty"`

	// PricingVersion identifies the price table and surcharges used
	PricingVersion string `json:"pricing_version"`
}

// Normalize converts raw inputs to clamped millimetres
func (e *Engine) Normalize(width, height measure.RawDimension) (int, int) {
	return measure.Normalize(width, height)
}

// Price returns only the breakdown
func (e *Engine) Price(cfg types.Configuration) types.PricingBreakdown {
	return e.calculator.CalculatePrice(cfg)
}

// Steps returns every visible step with its validity
func (e *Engine) Steps(cfg types.Configuration) []StepStatus {
	visible := e.validator.VisibleSteps(cfg)
	result := make([]StepStatus, 0, len(visible))
	for _, id := range visible {
		step, _ := wizard.Lookup(id)
		result = append(result, StepStatus{
			ID:       id,
			Title:    step.Title,
			Optional: step.Optional,
			Valid:    e.validator.IsStepValid(cfg, id),
		})
	}
	return result
}

// Quote prices a configuration and reports whether it could be submitted
func (e *Engine) Quote(cfg types.Configuration) *Quote {
	b := e.calculator.CalculatePrice(cfg)
	fp := determinism.Fingerprint(cfg)

	q := &Quote{
		Configuration: cfg,
		Breakdown:     b,
		LineItems:     e.calculator.LineItems(cfg, b),
		Fingerprint:   fp.Hex(),
		SKU:           determinism.SKU(e.config.SKUPrefix, cfg),
		Steps:         e.Steps(cfg),
		Metadata: Metadata{
			Timestamp:      e.config.Now().UTC().Format(time.RFC3339),
			Version:        e.config.Version,
			PricingVersion: e.calculator.Snapshot().Version,
		},
	}

	if err := e.CheckSubmittable(cfg); err != nil {
		q.Problems = problemsOf(err)
	}
	q.Ready = len(q.Problems) == 0
	return q
}

// CheckSubmittable returns an input error unless every visible step is
// valid and every chosen option is in the catalog
func (e *Engine) CheckSubmittable(cfg types.Configuration) error {
	p := errors.NewProblems(errors.TypeInput, "configuration is not ready to submit")
	for _, id := range e.validator.InvalidSteps(cfg) {
		p.Add("step."+string(id), "step %s is incomplete", id)
	}
	if err := e.catalog.Validate(cfg); err != nil {
		if ce, ok := errors.As(err); ok {
			for _, field := range determinism.SortedKeys(ce.Context) {
				p.Add(field, "%v", ce.Context[field])
			}
		} else {
			p.Add("catalog", "%v", err)
		}
	}
	return p.Err()
}

// Describe renders the configuration as human-readable properties, keyed by
// display label, for order notes and cart line properties
func (e *Engine) Describe(cfg types.Configuration) map[string]string {
	props := map[string]string{
		"Window":        strings.TrimSpace(cfg.WindowName),
		"Frame Colour":  e.catalog.Label(catalog.KindFrameColor, cfg.FrameColor),
		"Fabric":        e.catalog.Label(catalog.KindFabricType, cfg.FabricType),
		"Fabric Colour": e.catalog.Label(catalog.KindFabricColor, cfg.FabricColor),
		"Mount":         e.catalog.Label(catalog.KindMount, cfg.MountType),
		"Control":       e.catalog.Label(catalog.KindControl, cfg.ControlType),
		"Size":          fmt.Sprintf("%dmm x %dmm", cfg.Width, cfg.Height),
	}
	if cfg.MeasurementGuarantee {
		props["Measurement Guarantee"] = "Yes"
	} else {
		props["Measurement Guarantee"] = "No"
	}
	return props
}

func problemsOf(err error) []string {
	e, ok := errors.As(err)
	if !ok || len(e.Context) == 0 {
		return []string{err.Error()}
	}
	result := make([]string, 0, len(e.Context))
	for _, k := range determinism.SortedKeys(e.Context) {
		result = append(result, k+": "+fmt.Sprint(e.Context[k]))
	}
	return result
}
