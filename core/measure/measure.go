// Package measure normalises raw shopper measurements into canonical millimetres.
// Nothing here fails: bad input degrades to zero and bounds are checked separately.
package measure

import (
	"strconv"
	"strings"
	"unicode"
)

// Pair is the legacy two-field representation: whole centimetres plus a millimetre digit
type Pair struct {
	CM int `json:"cm"`
	MM int `json:"mm"`
}

// FromPair combines a centimetre/millimetre pair into millimetres. Each field
// is clamped on its own: units at zero, the millimetre digit to 0-9.
func FromPair(units, subunit int) int {
	subunit = clamp(subunit)
	if subunit > 9 {
		subunit = 9
	}
	return clamp(units)*10 + subunit
}

// FromMillimetres returns v as canonical millimetres
func FromMillimetres(v int) int {
	return clamp(v)
}

// Split converts millimetres back into the legacy pair
func Split(mm int) Pair {
	mm = clamp(mm)
	return Pair{CM: mm / 10, MM: mm % 10}
}

// Millimetres returns the pair as canonical millimetres
func (p Pair) Millimetres() int {
	return FromPair(p.CM, p.MM)
}

// Parse reads the leading integer of text the way a form field is read.
// "900", " 900mm", "900.7" all yield 900; "abc", "" and "-5" yield 0.
func Parse(text string) int {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && end < 10 && unicode.IsDigit(rune(text[end])) {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return clamp(v)
}

// Normalize turns raw width and height input into canonical millimetres
func Normalize(rawWidth, rawHeight RawDimension) (widthMM, heightMM int) {
	return rawWidth.Millimetres(), rawHeight.Millimetres()
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
