package pricing

import (
	"encoding/json"

	"blind-configurator/core/determinism"
)

// Snapshot identifies the pricing in force: one table and one policy.
// Quotes carry its version so a price can be traced to the table that
// produced it after the table changes.
type Snapshot struct {
	ContentHash determinism.ContentHash `json:"-"`
	Version     string                  `json:"version"`
}

// pricingContent is the hashed form of a table and policy
type pricingContent struct {
	Table  *Table `json:"table"`
	Policy Policy `json:"policy"`
}

// NewSnapshot hashes the table and policy. Equal prices give equal
// versions regardless of where the table was loaded from.
func NewSnapshot(table *Table, policy Policy) Snapshot {
	data, err := json.Marshal(pricingContent{Table: table, Policy: policy})
	if err != nil {
		// Table and Policy hold only strings, ints and decimals
		panic("pricing: snapshot encoding failed: " + err.Error())
	}
	hash := determinism.ComputeHash(data)
	return Snapshot{ContentHash: hash, Version: hash.Short(12)}
}
