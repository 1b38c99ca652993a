package pricing

import (
	"github.com/shopspring/decimal"

	"blind-configurator/core/types"
)

// MinimumPrice is the price floor for base price and total
var MinimumPrice = decimal.NewFromInt(50)

var defaultWidthBrackets = []Bracket{
	{530, 900}, {901, 1200}, {1201, 1500}, {1501, 1800},
	{1801, 2100}, {2101, 2400}, {2401, 2700}, {2701, 3000},
}

var defaultHeightBrackets = []Bracket{
	{300, 600}, {601, 900}, {901, 1200}, {1201, 1500},
	{1501, 1800}, {1801, 2100}, {2101, 2400}, {2401, 2700},
	{2701, 3000}, {3001, 3300}, {3301, 3600}, {3601, 3900},
}

// Rows 2701mm and taller price the 901-1200 column below the 530-900 column.
// These are the storefront's prices and are kept as published; CheckMonotonic
// reports them.
var defaultPrices = [][]int64{
	{560, 595, 625, 655, 690, 740, 790, 840},
	{580, 610, 645, 670, 705, 755, 805, 855},
	{600, 625, 665, 685, 720, 770, 820, 870},
	{620, 640, 685, 700, 735, 785, 835, 885},
	{640, 655, 705, 730, 770, 825, 860, 920},
	{660, 670, 725, 750, 795, 845, 880, 940},
	{680, 685, 745, 770, 815, 865, 900, 960},
	{700, 700, 765, 790, 835, 890, 920, 980},
	{720, 715, 785, 810, 850, 905, 940, 1000},
	{740, 730, 805, 830, 865, 920, 960, 1020},
	{760, 745, 825, 850, 880, 935, 980, 1040},
	{780, 760, 845, 870, 895, 950, 1000, 1060},
}

// DefaultTable returns a fresh copy of the storefront price table
func DefaultTable() *Table {
	prices := make([][]decimal.Decimal, len(defaultPrices))
	for h, row := range defaultPrices {
		prices[h] = make([]decimal.Decimal, len(row))
		for w, p := range row {
			prices[h][w] = decimal.NewFromInt(p)
		}
	}
	return &Table{
		Currency:       types.CurrencyAUD,
		WidthBrackets:  append([]Bracket(nil), defaultWidthBrackets...),
		HeightBrackets: append([]Bracket(nil), defaultHeightBrackets...),
		Prices:         prices,
		Minimum:        MinimumPrice,
	}
}
