package domain

import "math"

// MaxWindSpeed is the encoding ceiling in m/s. Component bytes span
// [-MaxWindSpeed, +MaxWindSpeed]; magnitude bytes span [0, MaxWindSpeed].
const MaxWindSpeed = 25.0

// DecodeComponent converts an 8-bit component sample to m/s.
// Byte 0 is the no-data sentinel and decodes to NaN.
func DecodeComponent(b uint8) float64 {
	if b == 0 {
		return math.NaN()
	}
	return MaxWindSpeed * (float64(b) - 128) / 127
}

// EncodeComponent converts a signed wind speed in m/s to its byte form,
// clipping to [-MaxWindSpeed, MaxWindSpeed]. NaN encodes to the no-data byte.
func EncodeComponent(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(127*clamp(v/MaxWindSpeed, -1, 1) + 128))
}

// EncodeMagnitude converts an unsigned wind speed in m/s to a byte,
// mapping [0, MaxWindSpeed] onto [0, 255] with clipping. NaN encodes to 0.
func EncodeMagnitude(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(255 * clamp(v/MaxWindSpeed, 0, 1)))
}

// Magnitude computes the elementwise Euclidean magnitude of two component
// grids. The grids must be the same shape; NaN in either component
// propagates to the result.
func Magnitude(u, v SampleGrid) SampleGrid {
	out := NewSampleGrid(u.Rows, u.Cols)
	for i := range u.Data {
		out.Data[i] = math.Hypot(u.Data[i], v.Data[i])
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
