// Package determinism provides primitives for deterministic pricing output.
// Money is decimal-backed and configuration fingerprints are content hashes
// over a canonical serialization, so equal configurations always agree.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"blind-configurator/core/types"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first n hex characters
func (h ContentHash) Short(n int) string {
	s := h.Hex()
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// canonicalConfiguration fixes field order and naming of the fingerprinted
// fields. Accessories are separate cart lines and are left out.
type canonicalConfiguration struct {
	FabricType           string `json:"fabric_type"`
	FabricColor          string `json:"fabric_color"`
	FrameColor           string `json:"frame_color"`
	MountType            string `json:"mount_type"`
	Width                int    `json:"width"`
	Height               int    `json:"height"`
	MeasurementGuarantee bool   `json:"measurement_guarantee"`
	ControlType          string `json:"control_type"`
	WindowName           string `json:"window_name"`
}

// CanonicalBytes returns the canonical serialization of the blind itself
func CanonicalBytes(cfg types.Configuration) []byte {
	data, err := json.Marshal(canonicalConfiguration{
		FabricType:           cfg.FabricType,
		FabricColor:          cfg.FabricColor,
		FrameColor:           cfg.FrameColor,
		MountType:            cfg.MountType,
		Width:                cfg.Width,
		Height:               cfg.Height,
		MeasurementGuarantee: cfg.MeasurementGuarantee,
		ControlType:          cfg.ControlType,
		WindowName:           strings.TrimSpace(cfg.WindowName),
	})
	if err != nil {
		// A struct of strings, ints and bools always marshals
		panic(fmt.Sprintf("determinism: canonical configuration: %v", err))
	}
	return data
}

// Fingerprint hashes the canonical configuration
func Fingerprint(cfg types.Configuration) ContentHash {
	return ComputeHash(CanonicalBytes(cfg))
}

// SKU returns the variant SKU for a configuration
func SKU(prefix string, cfg types.Configuration) string {
	return prefix + "-" + strings.ToUpper(Fingerprint(cfg).Short(16))
}

// Money represents a monetary amount with full precision.
// NEVER use float64 for money calculations.
type Money struct {
	amount   decimal.Decimal
	currency types.Currency
}

// NewMoney creates a Money from a decimal string
func NewMoney(amount string, currency types.Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d, currency: currency}, nil
}

// NewMoneyFromDecimal creates Money from decimal
func NewMoneyFromDecimal(amount decimal.Decimal, currency types.Currency) Money {
	return Money{amount: amount, currency: currency}
}

// Zero creates zero money
func Zero(currency types.Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() types.Currency {
	return m.currency
}

// Add adds two monetary amounts
func (m Money) Add(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot add %s and %s", m.currency, other.currency))
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// MulInt multiplies by a whole quantity
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n)), currency: m.currency}
}

// IsZero returns true if amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String returns formatted money (2 decimal places)
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Display returns the shopper-facing form: "$665" or "$665.50"
func (m Money) Display() string {
	if m.amount.Equal(m.amount.Truncate(0)) {
		return "$" + m.amount.StringFixed(0)
	}
	return "$" + m.amount.StringFixed(2)
}

// SortedKeys returns the keys of a string-keyed map in sorted order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
