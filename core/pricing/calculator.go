package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"blind-configurator/core/types"
)

// Policy holds the flat surcharges. They are fixed store policy values.
type Policy struct {
	// MinimumPrice floors both the base price and the total
	MinimumPrice decimal.Decimal `json:"minimum_price" yaml:"minimum_price"`

	// MeasurementGuaranteeFee is charged once when the guarantee is taken
	MeasurementGuaranteeFee decimal.Decimal `json:"measurement_guarantee_fee" yaml:"measurement_guarantee_fee"`

	// MotorisedFee is charged when the motorised control is selected
	MotorisedFee decimal.Decimal `json:"motorised_fee" yaml:"motorised_fee"`

	// AdditionalRemoteFee is charged for the extra remote
	AdditionalRemoteFee decimal.Decimal `json:"additional_remote_fee" yaml:"additional_remote_fee"`

	// SmartHubFee is charged per smart hub
	SmartHubFee decimal.Decimal `json:"smart_hub_fee" yaml:"smart_hub_fee"`

	// MotorisedControl is the control type id that carries MotorisedFee
	MotorisedControl string `json:"motorised_control" yaml:"motorised_control"`
}

// DefaultPolicy returns the storefront surcharges
func DefaultPolicy() Policy {
	return Policy{
		MinimumPrice:            MinimumPrice,
		MeasurementGuaranteeFee: decimal.NewFromInt(40),
		MotorisedFee:            decimal.NewFromInt(299),
		AdditionalRemoteFee:     decimal.NewFromInt(129),
		SmartHubFee:             decimal.NewFromInt(129),
		MotorisedControl:        types.ControlMotorised,
	}
}

// Calculator prices configurations against one table and one policy.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	table    *Table
	policy   Policy
	snapshot Snapshot
}

// NewCalculator creates a calculator. A nil table uses DefaultTable.
func NewCalculator(table *Table, policy Policy) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	if policy.MotorisedControl == "" {
		policy.MotorisedControl = types.ControlMotorised
	}
	return &Calculator{table: table, policy: policy, snapshot: NewSnapshot(table, policy)}
}

// NewDefaultCalculator uses the storefront table and surcharges
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultTable(), DefaultPolicy())
}

// Table returns the price table in use
func (c *Calculator) Table() *Table {
	return c.table
}

// Policy returns the surcharge policy in use
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Snapshot identifies the table and policy in use
func (c *Calculator) Snapshot() Snapshot {
	return c.snapshot
}

// CalculatePrice returns the breakdown for a configuration. It never fails:
// sizes off the table fall back to the minimum price.
func (c *Calculator) CalculatePrice(cfg types.Configuration) types.PricingBreakdown {
	p := c.policy

	b := types.PricingBreakdown{
		BasePrice:            decimal.Max(c.table.Lookup(cfg.Width, cfg.Height), p.MinimumPrice),
		MeasurementGuarantee: decimal.Zero,
		Motorised:            decimal.Zero,
		AdditionalRemote:     decimal.Zero,
		SmartHub:             decimal.Zero,
		Currency:             c.table.Currency,
	}
	if cfg.MeasurementGuarantee {
		b.MeasurementGuarantee = p.MeasurementGuaranteeFee
	}
	if cfg.ControlType == p.MotorisedControl {
		b.Motorised = p.MotorisedFee
	}
	if cfg.AdditionalRemote {
		b.AdditionalRemote = p.AdditionalRemoteFee
	}
	if hubs := smartHubs(cfg); hubs > 0 {
		b.SmartHub = p.SmartHubFee.Mul(decimal.NewFromInt(hubs))
	}

	b.Total = decimal.Max(b.Subtotal(), p.MinimumPrice)
	return b
}

// LineItems lists the non-zero components of a breakdown with their lineage
func (c *Calculator) LineItems(cfg types.Configuration, b types.PricingBreakdown) []types.LineItem {
	p := c.policy

	h, w := c.table.Index(cfg.Width, cfg.Height)
	baseFormula := fmt.Sprintf("table[height %s][width %s]", bracketLabel(c.table.HeightBrackets, h), bracketLabel(c.table.WidthBrackets, w))
	if h == NoMatch || w == NoMatch {
		baseFormula = "size outside price table: minimum price"
	}

	items := []types.LineItem{{
		ID:       "base",
		Label:    fmt.Sprintf("Base blind (%dmm x %dmm)", cfg.Width, cfg.Height),
		Quantity: 1,
		Rate:     b.BasePrice,
		Amount:   b.BasePrice,
		Formula:  baseFormula,
	}}

	if !b.MeasurementGuarantee.IsZero() {
		items = append(items, flatItem("measurement_guarantee", "Measurement Guarantee", b.MeasurementGuarantee))
	}
	if !b.Motorised.IsZero() {
		items = append(items, flatItem("motorised", "Motorised", b.Motorised))
	}
	if !b.AdditionalRemote.IsZero() {
		items = append(items, flatItem("additional_remote", "Additional Remote", b.AdditionalRemote))
	}
	if hubs := smartHubs(cfg); hubs > 0 {
		items = append(items, types.LineItem{
			ID:       "smart_hub",
			Label:    fmt.Sprintf("SmartHub x %d", hubs),
			Quantity: hubs,
			Rate:     p.SmartHubFee,
			Amount:   b.SmartHub,
			Formula:  fmt.Sprintf("%d x %s", hubs, p.SmartHubFee),
		})
	}
	return items
}

func flatItem(id, label string, amount decimal.Decimal) types.LineItem {
	return types.LineItem{
		ID:       id,
		Label:    label,
		Quantity: 1,
		Rate:     amount,
		Amount:   amount,
		Formula:  "flat fee",
	}
}

func bracketLabel(brackets []Bracket, i int) string {
	if i < 0 || i >= len(brackets) {
		return "none"
	}
	return brackets[i].String()
}

func smartHubs(cfg types.Configuration) int64 {
	if cfg.SmartHubQuantity < 0 {
		return 0
	}
	return int64(cfg.SmartHubQuantity)
}
