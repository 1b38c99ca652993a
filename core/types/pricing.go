// Package types - Pricing types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyAUD Currency = "AUD"
	CurrencyUSD Currency = "USD"
	CurrencyNZD Currency = "NZD"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// PricingBreakdown is the price of one configuration split by component.
// It is a value object: recompute instead of mutating.
type PricingBreakdown struct {
	// BasePrice is the table price for the blind size
	BasePrice decimal.Decimal `json:"base_price"`

	// MeasurementGuarantee is the measure guarantee surcharge
	MeasurementGuarantee decimal.Decimal `json:"measurement_guarantee"`

	// Motorised is the motorisation surcharge
	Motorised decimal.Decimal `json:"motorised"`

	// AdditionalRemote is the extra remote surcharge
	AdditionalRemote decimal.Decimal `json:"additional_remote"`

	// SmartHub is the smart hub surcharge for all hubs
	SmartHub decimal.Decimal `json:"smart_hub"`

	// Total is the sum of all components, floor-clamped
	Total decimal.Decimal `json:"total"`

	// Currency is the breakdown currency
	Currency Currency `json:"currency"`
}

// Components returns the summed components (everything except Total)
func (b PricingBreakdown) Components() []decimal.Decimal {
	return []decimal.Decimal{
		b.BasePrice,
		b.MeasurementGuarantee,
		b.Motorised,
		b.AdditionalRemote,
		b.SmartHub,
	}
}

// Subtotal returns the unclamped sum of the components
func (b PricingBreakdown) Subtotal() decimal.Decimal {
	return decimal.Sum(decimal.Zero, b.Components()...)
}

// Equal reports whether two breakdowns carry identical amounts
func (b PricingBreakdown) Equal(other PricingBreakdown) bool {
	if b.Currency != other.Currency || !b.Total.Equal(other.Total) {
		return false
	}
	mine, theirs := b.Components(), other.Components()
	for i := range mine {
		if !mine[i].Equal(theirs[i]) {
			return false
		}
	}
	return true
}

// LineItem is one billable component of a breakdown
type LineItem struct {
	// ID identifies the component (base, measurement_guarantee, ...)
	ID string `json:"id"`

	// Label is a human-readable label
	Label string `json:"label"`

	// Quantity is the unit count
	Quantity int64 `json:"quantity"`

	// Rate is the unit price
	Rate decimal.Decimal `json:"rate"`

	// Amount is Quantity * Rate
	Amount decimal.Decimal `json:"amount"`

	// Formula describes how the amount was calculated
	Formula string `json:"formula"`
}
