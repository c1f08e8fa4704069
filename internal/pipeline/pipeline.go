// Package pipeline orchestrates one wind-speed regrid run: read the u and v
// component rasters, resolve the source and target geometry, resample each
// channel onto the target grid, derive the magnitude field, and write the
// optionally rescaled output raster. Stages execute strictly in sequence
// and any failure aborts the run with no partial output.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
	"github.com/couchcryptid/windspeed-raster/internal/observability"
	"github.com/couchcryptid/windspeed-raster/internal/projection"
	"github.com/couchcryptid/windspeed-raster/internal/raster"
	"github.com/couchcryptid/windspeed-raster/internal/resample"
)

// Result summarizes a completed run.
type Result struct {
	OutputPath string
	Rows       int
	Cols       int
}

// Pipeline wires the regrid stages together. Construct with New; the
// reader and writer factories default to extension-based selection and are
// fields so tests can substitute in-memory fakes.
type Pipeline struct {
	engine  resample.Engine
	logger  *slog.Logger
	metrics *observability.Metrics

	ReaderFor func(path string, comp raster.Component) raster.Reader
	WriterFor func(path string) raster.Writer
}

// New creates a Pipeline around the given resample engine.
func New(engine resample.Engine, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		engine:    engine,
		logger:    logger,
		metrics:   metrics,
		ReaderFor: raster.ReaderFor,
		WriterFor: raster.WriterFor,
	}
}

// Run executes one regrid run. Every returned error wraps one of the
// package error classes.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	opts = opts.withDefaults()
	res, err := p.run(ctx, opts)
	if err != nil {
		p.metrics.RunsFailed.Inc()
		return Result{}, err
	}
	p.metrics.RunsCompleted.Inc()
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, opts Options) (Result, error) {
	runStart := domain.Clock().Now()

	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	proj, err := projection.Parse(opts.Projection)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	// Read both components before any geometry work so input problems
	// surface as early as possible.
	var u, v domain.SampleGrid
	err = p.timeStage("read", func() error {
		var err error
		if u, err = p.ReaderFor(opts.UFile, raster.ComponentU).ReadGrid(opts.UFile); err != nil {
			return fmt.Errorf("%w: u component: %v", ErrInput, err)
		}
		if v, err = p.ReaderFor(opts.VFile, raster.ComponentV).ReadGrid(opts.VFile); err != nil {
			return fmt.Errorf("%w: v component: %v", ErrInput, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if !u.SameShape(v) {
		return Result{}, fmt.Errorf("%w: u raster is %dx%d but v raster is %dx%d",
			ErrInput, u.Cols, u.Rows, v.Cols, v.Rows)
	}

	targetShape := opts.SourceShape
	if opts.TargetShape != nil {
		targetShape = *opts.TargetShape
	}
	geom := domain.ResolveGeometry(domain.NewUnitConverter(), opts.SourceShape, targetShape, opts.TargetOffset, opts.Units)

	srcArea, err := proj.BindArea("source", "source area", u.Rows, u.Cols, geom.Source)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	dstArea, err := proj.BindArea("target", "target area", u.Rows, u.Cols, geom.Target)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	p.logger.Debug("geometry resolved",
		"source_extent", geom.Source,
		"target_extent", geom.Target,
		"target_offset", geom.TargetOffset,
	)

	// Both channels resample against the same area pair, guaranteeing
	// pixel-for-pixel alignment between the regridded u and v.
	var ur, vr domain.SampleGrid
	err = p.timeStage("resample", func() error {
		var err error
		if ur, err = p.engine.Resample(ctx, u, srcArea, dstArea); err != nil {
			return fmt.Errorf("%w: u component: %v", ErrResample, err)
		}
		if vr, err = p.engine.Resample(ctx, v, srcArea, dstArea); err != nil {
			return fmt.Errorf("%w: v component: %v", ErrResample, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	p.metrics.ResampledPixels.Add(float64(2 * dstArea.Rows * dstArea.Cols))

	var magnitude domain.SampleGrid
	p.timeStage("magnitude", func() error { //nolint:errcheck // stage cannot fail
		magnitude = domain.Magnitude(ur, vr)
		return nil
	})

	var img *image.Gray
	p.timeStage("encode", func() error { //nolint:errcheck // stage cannot fail
		img = raster.Scale(raster.EncodeGray(magnitude), opts.Rescale)
		return nil
	})

	err = p.timeStage("write", func() error {
		if err := p.WriterFor(opts.OutFile).WriteImage(opts.OutFile, img); err != nil {
			return fmt.Errorf("%w: %v", ErrOutput, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		OutputPath: opts.OutFile,
		Rows:       img.Bounds().Dy(),
		Cols:       img.Bounds().Dx(),
	}

	duration := domain.Clock().Since(runStart)
	p.metrics.RunDuration.Observe(duration.Seconds())
	p.logger.Info("run complete",
		"output", res.OutputPath,
		"rows", res.Rows,
		"cols", res.Cols,
		"duration", duration,
	)
	return res, nil
}

// timeStage runs one stage and records its duration under the stage label.
func (p *Pipeline) timeStage(stage string, f func() error) error {
	start := domain.Clock().Now()
	err := f()
	p.metrics.StageDuration.WithLabelValues(stage).Observe(domain.Clock().Since(start).Seconds())
	return err
}
