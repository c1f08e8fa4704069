package pipeline

import (
	"fmt"
	"runtime"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

// DefaultSourceShape is the source area assumed when none is given:
// 500 x 500 meters around the projection origin.
var DefaultSourceShape = domain.Shape{Width: 500, Height: 500}

// Options are the parameters of one regrid run. Parsed once per run from
// the CLI or a job message, validated, then immutable.
type Options struct {
	UFile   string
	VFile   string
	OutFile string

	// SourceShape and TargetShape are in Units. A nil TargetShape defaults
	// to SourceShape.
	SourceShape domain.Shape
	TargetShape *domain.Shape

	// TargetOffset displaces the target centroid from the source centroid.
	// Nil selects the inference rule in domain.ResolveGeometry.
	TargetOffset *domain.Offset

	Units      domain.Units
	Projection string // empty selects projection.Default

	// Rescale uniformly downscales the output, in (0, 1]. Zero means 1.
	Rescale float64

	// Workers bounds the resample fan-out. Zero means all processors.
	Workers int
}

// withDefaults fills unset optional fields.
func (o Options) withDefaults() Options {
	if o.SourceShape == (domain.Shape{}) {
		o.SourceShape = DefaultSourceShape
	}
	if o.Units == "" {
		o.Units = domain.Meters
	}
	if o.Rescale == 0 {
		o.Rescale = 1
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Validate checks everything that can be rejected before touching any file.
func (o Options) Validate() error {
	if o.UFile == "" || o.VFile == "" || o.OutFile == "" {
		return fmt.Errorf("%w: u, v, and output paths are required", ErrConfiguration)
	}
	if _, err := domain.ParseUnits(string(o.Units)); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := o.SourceShape.Validate(); err != nil {
		return fmt.Errorf("%w: source %v", ErrConfiguration, err)
	}
	if o.TargetShape != nil {
		if err := o.TargetShape.Validate(); err != nil {
			return fmt.Errorf("%w: target %v", ErrConfiguration, err)
		}
	}
	if o.Rescale <= 0 || o.Rescale > 1 {
		return fmt.Errorf("%w: rescale ratio %g outside (0, 1]", ErrConfiguration, o.Rescale)
	}
	if o.Workers < 1 || o.Workers > runtime.NumCPU() {
		return fmt.Errorf("%w: worker count %d outside 1..%d", ErrConfiguration, o.Workers, runtime.NumCPU())
	}
	return nil
}
