// Command genwind generates synthetic u/v wind component rasters for tests
// and demos. It uses the actual domain encoding so generated fixtures match
// real pipeline inputs.
//
// Usage:
//
//	go run ./cmd/genwind -out testdata -size 500 -pattern vortex
//
// Patterns:
//
//	uniform  constant 10 m/s eastward flow
//	vortex   solid-body rotation around the raster center
//	shear    eastward flow growing linearly from south to north
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "testdata", "output directory for u.png and v.png")
	size := flag.Int("size", 500, "raster width and height in pixels")
	pattern := flag.String("pattern", "vortex", "wind field pattern: uniform, vortex, or shear")
	flag.Parse()

	if *size < 1 {
		return fmt.Errorf("invalid size %d", *size)
	}
	field, ok := fields[*pattern]
	if !ok {
		return fmt.Errorf("unknown pattern %q", *pattern)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	u := image.NewGray(image.Rect(0, 0, *size, *size))
	v := image.NewGray(image.Rect(0, 0, *size, *size))
	for row := 0; row < *size; row++ {
		for col := 0; col < *size; col++ {
			uv, vv := field(row, col, *size)
			u.Pix[row*u.Stride+col] = domain.EncodeComponent(uv)
			v.Pix[row*v.Stride+col] = domain.EncodeComponent(vv)
		}
	}

	for name, img := range map[string]*image.Gray{"u.png": u, "v.png": v} {
		path := filepath.Join(*outDir, name)
		if err := writePNG(path, img); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

// fields maps pattern names to (row, col, size) -> (u, v) in m/s.
var fields = map[string]func(row, col, size int) (float64, float64){
	"uniform": func(_, _, _ int) (float64, float64) {
		return 10, 0
	},
	"vortex": func(row, col, size int) (float64, float64) {
		// Solid-body rotation, 20 m/s at the raster edge.
		half := float64(size) / 2
		dx := (float64(col) + 0.5 - half) / half
		dy := (half - float64(row) - 0.5) / half
		return -20 * dy, 20 * dx
	},
	"shear": func(row, _, size int) (float64, float64) {
		return 20 * float64(size-row) / float64(size), 0
	},
}

func writePNG(path string, img *image.Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
