package domain

import "fmt"

// SampleGrid is a dense row-major 2-D grid of physical sample values in m/s.
// No-data cells hold NaN. Grids are freshly allocated by whoever produces
// them and never mutated once handed off.
type SampleGrid struct {
	Rows int
	Cols int
	Data []float64
}

// NewSampleGrid allocates a zero-filled grid.
func NewSampleGrid(rows, cols int) SampleGrid {
	return SampleGrid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the sample at (row, col). Bounds are the caller's problem.
func (g SampleGrid) At(row, col int) float64 { return g.Data[row*g.Cols+col] }

// Set stores a sample at (row, col).
func (g SampleGrid) Set(row, col int, v float64) { g.Data[row*g.Cols+col] = v }

// SameShape reports whether two grids have identical dimensions.
func (g SampleGrid) SameShape(other SampleGrid) bool {
	return g.Rows == other.Rows && g.Cols == other.Cols
}

// AreaDefinition is a geo-referenced rectangular pixel grid: a projection
// identity, raster dimensions, and a bounding box in projected meters.
// Derived once per run and immutable afterwards.
type AreaDefinition struct {
	ID          string
	Description string
	Projection  string
	Rows        int
	Cols        int
	Extent      Extent
}

// Validate rejects degenerate areas that would break pixel-size math.
func (a AreaDefinition) Validate() error {
	if a.Rows <= 0 || a.Cols <= 0 {
		return fmt.Errorf("area %q: pixel grid %dx%d is degenerate", a.ID, a.Cols, a.Rows)
	}
	if a.Extent.Width() <= 0 || a.Extent.Height() <= 0 {
		return fmt.Errorf("area %q: extent %+v is degenerate", a.ID, a.Extent)
	}
	return nil
}

// PixelWidth returns the horizontal size of one cell in meters.
func (a AreaDefinition) PixelWidth() float64 { return a.Extent.Width() / float64(a.Cols) }

// PixelHeight returns the vertical size of one cell in meters.
func (a AreaDefinition) PixelHeight() float64 { return a.Extent.Height() / float64(a.Rows) }
