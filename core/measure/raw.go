package measure

import (
	"bytes"
	"encoding/json"
	"math"
)

// RawDimension is one axis as entered by a shopper. It decodes from a JSON
// number (millimetres), a numeric string, or a {"cm":N,"mm":N} object.
type RawDimension struct {
	pair  *Pair
	mm    int
	valid bool
}

// RawMillimetres wraps an already-millimetre value
func RawMillimetres(mm int) RawDimension {
	return RawDimension{mm: mm, valid: true}
}

// RawPair wraps the legacy centimetre/millimetre pair
func RawPair(cm, mm int) RawDimension {
	return RawDimension{pair: &Pair{CM: cm, MM: mm}, valid: true}
}

// RawText wraps free text from a form field
func RawText(text string) RawDimension {
	return RawMillimetres(Parse(text))
}

// Millimetres normalises the raw value. Unset values are 0.
func (r RawDimension) Millimetres() int {
	if !r.valid {
		return 0
	}
	if r.pair != nil {
		return r.pair.Millimetres()
	}
	return FromMillimetres(r.mm)
}

// UnmarshalJSON accepts every representation the storefront has used.
// Input that is none of them normalises to 0 instead of failing the request.
func (r *RawDimension) UnmarshalJSON(data []byte) error {
	*r = RawDimension{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var p struct {
			CM json.Number `json:"cm"`
			MM json.Number `json:"mm"`
		}
		if err := json.Unmarshal(data, &p); err != nil {
			*r = RawMillimetres(0)
			return nil
		}
		*r = RawPair(numberToInt(p.CM), numberToInt(p.MM))
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*r = RawMillimetres(0)
			return nil
		}
		*r = RawText(s)
	default:
		*r = RawMillimetres(numberToInt(json.Number(data)))
	}
	return nil
}

// MarshalJSON writes the canonical millimetre value
func (r RawDimension) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Millimetres())
}

func numberToInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		if i > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(i)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}
