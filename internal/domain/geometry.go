package domain

import "fmt"

// Shape is a rectangular area size as longitude (width) and latitude
// (height) extent, in the units tracked by the caller.
type Shape struct {
	Width  float64
	Height float64
}

// Validate rejects non-positive dimensions.
func (s Shape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("area shape %gx%g: dimensions must be positive", s.Width, s.Height)
	}
	return nil
}

// Offset is a signed displacement of the target area's centroid relative to
// the source area's centroid, as (Δlongitude, Δlatitude).
type Offset struct {
	DX float64
	DY float64
}

// Extent is an axis-aligned bounding box in projected meters:
// (MinX, MinY) is the lower-left corner, (MaxX, MaxY) the upper-right.
type Extent struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns the horizontal span in meters.
func (e Extent) Width() float64 { return e.MaxX - e.MinX }

// Height returns the vertical span in meters.
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

// extentAround builds an extent of the given shape (already in meters)
// centered at the origin displaced by off.
func extentAround(shape Shape, off Offset) Extent {
	w := shape.Width / 2
	h := shape.Height / 2
	return Extent{
		MinX: -w + off.DX,
		MinY: -h + off.DY,
		MaxX: w + off.DX,
		MaxY: h + off.DY,
	}
}

// Geometry is the resolved pair of source and target extents, both in
// projected meters, plus the effective target offset that produced them.
type Geometry struct {
	Source       Extent
	Target       Extent
	TargetOffset Offset
}

// ResolveGeometry computes the source and target extents for a regrid run.
//
// The source area is a rectangle of sourceShape centered on the projection's
// natural origin. The target area is a rectangle of targetShape centered on
// the source centroid displaced by the effective offset:
//
//   - an explicit offset is used verbatim;
//   - with no offset and targetShape != sourceShape, the offset is inferred
//     so the target's upper-left corner coincides with the source's
//     upper-left corner. The y component is negated because raster rows run
//     opposite to increasing y;
//   - otherwise the offset is zero.
//
// All inputs are expected in the given units; conversion to meters happens
// here. Shapes must already be validated positive. A target larger than the
// source is allowed: cells outside source coverage resample to no-data.
func ResolveGeometry(conv UnitConverter, sourceShape, targetShape Shape, offset *Offset, units Units) Geometry {
	src := Shape{
		Width:  conv.ToMeters(sourceShape.Width, units),
		Height: conv.ToMeters(sourceShape.Height, units),
	}
	tgt := Shape{
		Width:  conv.ToMeters(targetShape.Width, units),
		Height: conv.ToMeters(targetShape.Height, units),
	}

	var eff Offset
	switch {
	case offset != nil:
		eff = Offset{
			DX: conv.ToMeters(offset.DX, units),
			DY: conv.ToMeters(offset.DY, units),
		}
	case tgt != src:
		// Pin the target's upper-left corner to the source's: shift by
		// half the dimensional difference per axis. The y sign runs
		// opposite to x because raster rows run top-down.
		eff = Offset{
			DX: (tgt.Width - src.Width) / 2,
			DY: (src.Height - tgt.Height) / 2,
		}
	}

	return Geometry{
		Source:       extentAround(src, Offset{}),
		Target:       extentAround(tgt, eff),
		TargetOffset: eff,
	}
}
