// Package service runs the regrid pipeline against a stream of job
// messages. Each job names the input rasters and the area parameters; the
// worker executes the same pipeline as the CLI and publishes a result event
// per job.
package service

import (
	"context"
	"time"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
	"github.com/couchcryptid/windspeed-raster/internal/pipeline"
)

// RegridJob is the JSON job message consumed from the job topic.
type RegridJob struct {
	ID           string    `json:"id"`
	UFile        string    `json:"u_file"`
	VFile        string    `json:"v_file"`
	OutFile      string    `json:"o_file"`
	SourceArea   []float64 `json:"source_area,omitempty"`   // [width, height]
	TargetArea   []float64 `json:"target_area,omitempty"`   // [width, height]
	TargetOffset []float64 `json:"target_offset,omitempty"` // [dx, dy]
	Units        string    `json:"units,omitempty"`
	Projection   string    `json:"projection,omitempty"`
	Rescale      float64   `json:"rescale,omitempty"`

	// Commit acknowledges the job message after a result is published.
	Commit func(ctx context.Context) error `json:"-"`
}

// RegridResult is the JSON result event published to the sink topic.
type RegridResult struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"` // "ok" or "error"
	Error       string    `json:"error,omitempty"`
	OutputFile  string    `json:"output_file,omitempty"`
	Rows        int       `json:"rows,omitempty"`
	Cols        int       `json:"cols,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Options converts the job into validated-later run options. The worker's
// configured worker count applies to every job.
func (j RegridJob) Options(workers int) pipeline.Options {
	opts := pipeline.Options{
		UFile:      j.UFile,
		VFile:      j.VFile,
		OutFile:    j.OutFile,
		Units:      domain.Units(j.Units),
		Projection: j.Projection,
		Rescale:    j.Rescale,
		Workers:    workers,
	}
	if len(j.SourceArea) == 2 {
		opts.SourceShape = domain.Shape{Width: j.SourceArea[0], Height: j.SourceArea[1]}
	}
	if len(j.TargetArea) == 2 {
		opts.TargetShape = &domain.Shape{Width: j.TargetArea[0], Height: j.TargetArea[1]}
	}
	if len(j.TargetOffset) == 2 {
		opts.TargetOffset = &domain.Offset{DX: j.TargetOffset[0], DY: j.TargetOffset[1]}
	}
	return opts
}

// JobSource yields the next job from the intake stream, blocking until one
// arrives or the context is cancelled.
type JobSource interface {
	FetchJob(ctx context.Context) (RegridJob, error)
}

// ResultSink publishes a result event.
type ResultSink interface {
	PublishResult(ctx context.Context, result RegridResult) error
}
