// Package config parses run parameters: command-line flags for the one-shot
// CLI and environment variables for the job service.
package config

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
	"github.com/couchcryptid/windspeed-raster/internal/pipeline"
)

// Version is the user-visible version string printed by --version.
const Version = "windspeed 1.0.0"

// pair is a flag.Value holding a comma-separated float pair, e.g. "500,500".
type pair struct {
	set  bool
	a, b float64
}

func (p *pair) String() string {
	if !p.set {
		return ""
	}
	return fmt.Sprintf("%g,%g", p.a, p.b)
}

func (p *pair) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("want two comma-separated values, got %q", s)
	}
	a, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	b, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid pair %q", s)
	}
	p.a, p.b, p.set = a, b, true
	return nil
}

// ParseArgs parses CLI arguments (without the program name) into run
// options. It returns flag.ErrHelp style errors from the flag package
// unchanged; usage goes to out.
func ParseArgs(args []string, out io.Writer) (pipeline.Options, bool, error) {
	fs := flag.NewFlagSet("windspeed", flag.ContinueOnError)
	fs.SetOutput(out)

	var sArea, tArea, tOffset pair
	units := fs.String("units", string(domain.Meters), "units for area shapes and offsets: 'm' or 'd'")
	proj := fs.String("projection", "", "projection applied to source and target areas (default UTM zone 13, WGS84)")
	rescale := fs.Float64("rescale", 1.0, "uniform downscale ratio for the output raster, in (0,1]")
	nprocs := fs.Int("nprocs", runtime.NumCPU(), "worker count for resampling")
	version := fs.Bool("version", false, "print version and exit")

	fs.Var(&sArea, "sArea", "source area shape as lon,lat dimensions (default 500,500)")
	fs.Var(&tArea, "tArea", "target area shape as lon,lat dimensions (default same as source)")
	fs.Var(&tOffset, "tOffset", "target area offset as lon,lat displacement from the source centroid")

	// Short aliases share the backing values.
	fs.Var(&sArea, "s", "alias for -sArea")
	fs.Var(&tArea, "t", "alias for -tArea")
	fs.Var(&tOffset, "o", "alias for -tOffset")
	fs.StringVar(units, "u", *units, "alias for -units")
	fs.StringVar(proj, "p", *proj, "alias for -projection")
	fs.Float64Var(rescale, "r", *rescale, "alias for -rescale")
	fs.BoolVar(version, "v", *version, "alias for -version")

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: windspeed [options] uFile vFile oFile\n\n")
		fmt.Fprintf(out, "Computes a wind speed magnitude raster from u and v component rasters,\n")
		fmt.Fprintf(out, "regridded onto a user-specified area of interest.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return pipeline.Options{}, false, err
	}
	if *version {
		return pipeline.Options{}, true, nil
	}

	rest := fs.Args()
	if len(rest) != 3 {
		fs.Usage()
		return pipeline.Options{}, false, fmt.Errorf("expected 3 positional arguments (uFile vFile oFile), got %d", len(rest))
	}

	opts := pipeline.Options{
		UFile:      rest[0],
		VFile:      rest[1],
		OutFile:    rest[2],
		Units:      domain.Units(*units),
		Projection: *proj,
		Rescale:    *rescale,
		Workers:    *nprocs,
	}
	if sArea.set {
		opts.SourceShape = domain.Shape{Width: sArea.a, Height: sArea.b}
	}
	if tArea.set {
		opts.TargetShape = &domain.Shape{Width: tArea.a, Height: tArea.b}
	}
	if tOffset.set {
		opts.TargetOffset = &domain.Offset{DX: tOffset.a, DY: tOffset.b}
	}
	return opts, false, nil
}
