package measure

import "fmt"

// Bounds is an inclusive millimetre range
type Bounds struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

var (
	// DefaultWidthBounds is the supported blind width
	DefaultWidthBounds = Bounds{Min: 530, Max: 3000}

	// DefaultHeightBounds is the supported blind height
	DefaultHeightBounds = Bounds{Min: 300, Max: 3900}
)

// Contains reports whether v lies inside the bounds. Zero is never contained.
func (b Bounds) Contains(v int) bool {
	return v > 0 && v >= b.Min && v <= b.Max
}

// String returns "min-max mm"
func (b Bounds) String() string {
	return fmt.Sprintf("%d-%dmm", b.Min, b.Max)
}

// Limits holds the bounds for both axes
type Limits struct {
	Width  Bounds `json:"width" yaml:"width"`
	Height Bounds `json:"height" yaml:"height"`
}

// DefaultLimits returns the latest measurement policy
func DefaultLimits() Limits {
	return Limits{Width: DefaultWidthBounds, Height: DefaultHeightBounds}
}

// Contains reports whether both dimensions are inside their bounds
func (l Limits) Contains(widthMM, heightMM int) bool {
	return l.Width.Contains(widthMM) && l.Height.Contains(heightMM)
}
