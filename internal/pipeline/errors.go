package pipeline

import "errors"

// Error classes for run failures. Every error returned by Run wraps one of
// these, so callers can map failures to exit codes or result statuses with
// errors.Is. All failures are fatal to the run: the pipeline either
// produces a complete output raster or none.
var (
	// ErrConfiguration covers invalid units, non-positive shapes, rescale
	// ratios outside (0,1], worker counts, and rejected projection strings.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInput covers missing or unreadable input rasters and mismatched
	// u/v dimensions.
	ErrInput = errors.New("invalid input")

	// ErrResample covers failures surfaced by the resample engine, such as
	// degenerate areas.
	ErrResample = errors.New("resample failed")

	// ErrOutput covers failures encoding or writing the output raster.
	ErrOutput = errors.New("write output failed")
)
