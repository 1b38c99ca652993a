package pricing

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

// tableFile is the HCL layout of a price table:
//
//	currency       = "AUD"
//	minimum_price  = 50
//	width_brackets = [[530, 900], [901, 1200]]
//
//	height_bracket {
//	  min    = 300
//	  max    = 600
//	  prices = [560, 595]
//	}
type tableFile struct {
	Currency      string          `hcl:"currency,optional"`
	MinimumPrice  *float64        `hcl:"minimum_price,optional"`
	WidthBrackets [][]int         `hcl:"width_brackets"`
	Rows          []heightBracket `hcl:"height_bracket,block"`
}

type heightBracket struct {
	Min    int       `hcl:"min"`
	Max    int       `hcl:"max"`
	Prices []float64 `hcl:"prices"`
}

// LoadTableFile reads and validates an HCL price table
func LoadTableFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read price table", err).WithContext("path", path)
	}
	return ParseTable(src, path)
}

// ParseTable decodes and validates an HCL price table. filename must end in
// .hcl (or .json for the JSON form of HCL) and is used in diagnostics.
func ParseTable(src []byte, filename string) (*Table, error) {
	var file tableFile
	if err := hclsimple.Decode(filename, src, nil, &file); err != nil {
		return nil, errors.Config("parse price table", err).WithContext("path", filename)
	}

	table := &Table{
		Currency: types.Currency(file.Currency),
		Minimum:  MinimumPrice,
	}
	if table.Currency == "" {
		table.Currency = types.CurrencyAUD
	}
	if file.MinimumPrice != nil {
		table.Minimum = decimal.NewFromFloat(*file.MinimumPrice)
	}

	for i, pair := range file.WidthBrackets {
		if len(pair) != 2 {
			return nil, errors.Newf(errors.TypeConfig, "width_brackets[%d]: expected [min, max], got %d values", i, len(pair)).
				WithContext("path", filename)
		}
		table.WidthBrackets = append(table.WidthBrackets, Bracket{Min: pair[0], Max: pair[1]})
	}

	for _, row := range file.Rows {
		table.HeightBrackets = append(table.HeightBrackets, Bracket{Min: row.Min, Max: row.Max})
		prices := make([]decimal.Decimal, len(row.Prices))
		for i, p := range row.Prices {
			prices[i] = decimal.NewFromFloat(p)
		}
		table.Prices = append(table.Prices, prices)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return table, nil
}
