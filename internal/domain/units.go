package domain

import "fmt"

// Units is the unit domain for area shapes and offsets.
type Units string

const (
	Meters  Units = "m"
	Degrees Units = "d"
)

// DefaultMetersPerDegree is the global degree-to-meter scale, derived from
// the 500 m per 0.005° convention of the upstream raster products. It is a
// gross simplification that ignores latitude dependence; see the package doc.
const DefaultMetersPerDegree = 500.0 / 0.005

// ParseUnits validates a units flag value.
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case Meters, Degrees:
		return Units(s), nil
	default:
		return "", fmt.Errorf("invalid units %q: must be 'm' or 'd'", s)
	}
}

// UnitConverter normalizes shape and offset values to projected meters.
// The zero value is not usable; construct with NewUnitConverter.
type UnitConverter struct {
	// MetersPerDegree is the scale applied to both axes when converting
	// from degrees. Override for a less approximate conversion.
	MetersPerDegree float64
}

// NewUnitConverter returns a converter using DefaultMetersPerDegree.
func NewUnitConverter() UnitConverter {
	return UnitConverter{MetersPerDegree: DefaultMetersPerDegree}
}

// ToMeters converts a scalar value from the given units to meters.
// Meter values pass through unchanged. Any numeric input is accepted,
// including negative offsets; ToMeters is linear in value.
func (c UnitConverter) ToMeters(value float64, units Units) float64 {
	if units == Degrees {
		return value * c.MetersPerDegree
	}
	return value
}
