// Command windspeed computes a wind speed magnitude raster from u and v
// component rasters, regridded onto a user-specified area of interest.
//
// Usage:
//
//	windspeed [options] uFile vFile oFile
//
// Inputs are 8-bit grayscale PNG rasters (or NetCDF files with ERA5
// u10/v10 variables); the output is an 8-bit grayscale PNG, or WebP when
// the output path ends in .webp.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/windspeed-raster/internal/config"
	"github.com/couchcryptid/windspeed-raster/internal/observability"
	"github.com/couchcryptid/windspeed-raster/internal/pipeline"
	"github.com/couchcryptid/windspeed-raster/internal/resample"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, showVersion, err := config.ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if showVersion {
		fmt.Println(config.Version)
		return 0
	}

	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"), "text")
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := &resample.NearestNeighbor{Workers: opts.Workers}
	p := pipeline.New(engine, logger, metrics)

	if _, err := p.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, pipeline.ErrConfiguration) {
			return 2
		}
		return 1
	}
	return 0
}
