// Package resample regrids sample grids between geo-referenced areas.
//
// The engine boundary is deliberately narrow — one source grid, two area
// definitions, a bounded worker count — so any compliant geospatial
// resampling implementation can sit behind it. The bundled implementation
// is an approximate nearest-neighbor lookup that exploits the fact that
// both areas share one projection: each target cell center maps straight
// into source pixel space with no coordinate transform.
package resample

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

// ErrDegenerateArea reports an area definition unusable for resampling.
var ErrDegenerateArea = errors.New("degenerate area definition")

// Engine regrids one channel's samples from the source area onto the
// target area, returning a freshly allocated target-shaped grid.
type Engine interface {
	Resample(ctx context.Context, src domain.SampleGrid, srcArea, dstArea domain.AreaDefinition) (domain.SampleGrid, error)
}

// NearestNeighbor is an Engine assigning each target cell the value of the
// geographically closest source sample. Cells outside source coverage get
// the no-data sentinel (NaN). Safe for concurrent use.
type NearestNeighbor struct {
	// Workers bounds the row-chunk fan-out. Zero means runtime.NumCPU().
	Workers int
}

// Resample implements Engine.
func (nn *NearestNeighbor) Resample(ctx context.Context, src domain.SampleGrid, srcArea, dstArea domain.AreaDefinition) (domain.SampleGrid, error) {
	if err := srcArea.Validate(); err != nil {
		return domain.SampleGrid{}, fmt.Errorf("%w: %v", ErrDegenerateArea, err)
	}
	if err := dstArea.Validate(); err != nil {
		return domain.SampleGrid{}, fmt.Errorf("%w: %v", ErrDegenerateArea, err)
	}
	if src.Rows != srcArea.Rows || src.Cols != srcArea.Cols {
		return domain.SampleGrid{}, fmt.Errorf(
			"source grid %dx%d does not match source area %dx%d",
			src.Cols, src.Rows, srcArea.Cols, srcArea.Rows)
	}

	workers := nn.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > dstArea.Rows {
		workers = dstArea.Rows
	}

	out := domain.NewSampleGrid(dstArea.Rows, dstArea.Cols)

	srcPixW := srcArea.PixelWidth()
	srcPixH := srcArea.PixelHeight()
	dstPixW := dstArea.PixelWidth()
	dstPixH := dstArea.PixelHeight()

	// Row ranges fan out across the pool; each worker writes a disjoint
	// slice of out.Data, so no synchronization beyond the WaitGroup.
	var wg sync.WaitGroup
	chunk := (dstArea.Rows + workers - 1) / workers
	for start := 0; start < dstArea.Rows; start += chunk {
		end := start + chunk
		if end > dstArea.Rows {
			end = dstArea.Rows
		}
		wg.Add(1)
		go func(rowStart, rowEnd int) {
			defer wg.Done()
			for r := rowStart; r < rowEnd; r++ {
				if ctx.Err() != nil {
					return
				}
				// Target cell centers, top row first: y decreases with r.
				y := dstArea.Extent.MaxY - (float64(r)+0.5)*dstPixH
				sr := int(math.Floor((srcArea.Extent.MaxY - y) / srcPixH))
				for c := 0; c < dstArea.Cols; c++ {
					x := dstArea.Extent.MinX + (float64(c)+0.5)*dstPixW
					sc := int(math.Floor((x - srcArea.Extent.MinX) / srcPixW))
					if sr < 0 || sr >= srcArea.Rows || sc < 0 || sc >= srcArea.Cols {
						out.Set(r, c, math.NaN())
						continue
					}
					out.Set(r, c, src.At(sr, sc))
				}
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.SampleGrid{}, err
	}
	return out, nil
}
