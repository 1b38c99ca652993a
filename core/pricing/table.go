// Package pricing - Bracket price table and add-on calculator
// The table maps a (width, height) pair to a base price; the calculator adds
// the flat surcharges. Both are pure: no I/O, no logging, no shared state.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"blind-configurator/core/measure"
	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

// NoMatch is the index returned when a dimension falls outside every bracket
const NoMatch = -1

// Bracket is an inclusive millimetre range
type Bracket struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies in the bracket, both ends included
func (b Bracket) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// String returns "min-max"
func (b Bracket) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// Table is a 2-D bracket price table
type Table struct {
	// Currency is the currency of every price
	Currency types.Currency `json:"currency"`

	// WidthBrackets are the columns, ascending
	WidthBrackets []Bracket `json:"width_brackets"`

	// HeightBrackets are the rows, ascending
	HeightBrackets []Bracket `json:"height_brackets"`

	// Prices is indexed [height][width]
	Prices [][]decimal.Decimal `json:"prices"`

	// Minimum is returned when no bracket matches
	Minimum decimal.Decimal `json:"minimum"`
}

// findBracket returns the index of the first bracket containing v, or NoMatch
func findBracket(v int, brackets []Bracket) int {
	for i, b := range brackets {
		if b.Contains(v) {
			return i
		}
	}
	return NoMatch
}

// Index locates the row and column for a size. Either index may be NoMatch.
func (t *Table) Index(widthMM, heightMM int) (heightIdx, widthIdx int) {
	return findBracket(heightMM, t.HeightBrackets), findBracket(widthMM, t.WidthBrackets)
}

// Lookup returns the base price for a size, or the minimum when the size is off the table
func (t *Table) Lookup(widthMM, heightMM int) decimal.Decimal {
	price, ok := t.lookup(widthMM, heightMM)
	if !ok {
		return t.Minimum
	}
	return price
}

func (t *Table) lookup(widthMM, heightMM int) (decimal.Decimal, bool) {
	h, w := t.Index(widthMM, heightMM)
	if h == NoMatch || w == NoMatch {
		return decimal.Zero, false
	}
	if h >= len(t.Prices) || w >= len(t.Prices[h]) {
		return decimal.Zero, false
	}
	return t.Prices[h][w], true
}

// Covers reports whether a size has its own table price
func (t *Table) Covers(widthMM, heightMM int) bool {
	_, ok := t.lookup(widthMM, heightMM)
	return ok
}

// Coverage returns the measurement range the table prices
func (t *Table) Coverage() measure.Limits {
	return measure.Limits{
		Width:  span(t.WidthBrackets),
		Height: span(t.HeightBrackets),
	}
}

func span(brackets []Bracket) measure.Bounds {
	if len(brackets) == 0 {
		return measure.Bounds{}
	}
	return measure.Bounds{Min: brackets[0].Min, Max: brackets[len(brackets)-1].Max}
}

// Validate checks that every size in range maps to exactly one price.
// Price ordering is not checked here; see CheckMonotonic.
func (t *Table) Validate() error {
	problems := errors.NewProblems(errors.TypeConfig, "invalid price table")

	if t.Currency == "" {
		problems.Add("currency", "currency is required")
	}
	if t.Minimum.IsNegative() {
		problems.Add("minimum", "minimum price %s is negative", t.Minimum)
	}
	checkBrackets(problems, "width_brackets", t.WidthBrackets)
	checkBrackets(problems, "height_brackets", t.HeightBrackets)

	if len(t.Prices) != len(t.HeightBrackets) {
		problems.Add("prices", "%d rows for %d height brackets", len(t.Prices), len(t.HeightBrackets))
		return problems.Err()
	}
	for h, row := range t.Prices {
		if len(row) != len(t.WidthBrackets) {
			problems.Add(rowName(h), "%d columns for %d width brackets", len(row), len(t.WidthBrackets))
			continue
		}
		for w, price := range row {
			if price.IsNegative() {
				problems.Add(cellName(h, w), "price %s is negative", price)
			}
		}
	}
	return problems.Err()
}

// CheckMonotonic reports cells priced below a narrower or shorter neighbour.
// Such tables still load; callers decide whether to warn.
func (t *Table) CheckMonotonic() error {
	problems := errors.NewProblems(errors.TypePricing, "price table is not monotonic")
	for h, row := range t.Prices {
		for w, price := range row {
			if w > 0 && price.LessThan(row[w-1]) {
				problems.Add(cellName(h, w), "price %s is lower than narrower bracket %s", price, row[w-1])
			}
			if h > 0 && w < len(t.Prices[h-1]) && price.LessThan(t.Prices[h-1][w]) {
				problems.Add(cellName(h, w), "price %s is lower than shorter bracket %s", price, t.Prices[h-1][w])
			}
		}
	}
	return problems.Err()
}

// rowName and cellName zero-pad indices so problems list in table order
func rowName(h int) string {
	return fmt.Sprintf("prices[%02d]", h)
}

func cellName(h, w int) string {
	return fmt.Sprintf("prices[%02d][%02d]", h, w)
}

func checkBrackets(problems *errors.Problems, field string, brackets []Bracket) {
	if len(brackets) == 0 {
		problems.Add(field, "at least one bracket is required")
		return
	}
	for i, b := range brackets {
		if b.Min < 0 || b.Min > b.Max {
			problems.Add(fmt.Sprintf("%s[%02d]", field, i), "bracket %s is empty or negative", b)
			continue
		}
		if i > 0 && b.Min != brackets[i-1].Max+1 {
			problems.Add(fmt.Sprintf("%s[%02d]", field, i), "bracket %s does not follow %s without gap or overlap", b, brackets[i-1])
		}
	}
}
