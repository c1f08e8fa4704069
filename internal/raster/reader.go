// Package raster adapts raster file formats to the pipeline's sample grids.
// Readers return decoded physical grids in m/s; writers encode magnitude
// grids back to 8-bit grayscale. Format selection is by file extension.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

// Component identifies which wind channel a file holds. It selects the
// variable name when reading multi-variable formats like NetCDF.
type Component string

const (
	ComponentU Component = "u"
	ComponentV Component = "v"
)

// Reader loads one wind component from a file as a decoded m/s grid.
type Reader interface {
	ReadGrid(path string) (domain.SampleGrid, error)
}

// ReaderFor picks a reader by file extension: .nc selects NetCDF with the
// ERA5 variable name for the component, anything else is treated as an
// 8-bit grayscale PNG.
func ReaderFor(path string, comp Component) Reader {
	if strings.EqualFold(filepath.Ext(path), ".nc") {
		return &NetCDFReader{Var: era5Var(comp)}
	}
	return &PNGReader{}
}

// PNGReader reads 8-bit grayscale PNG component rasters.
type PNGReader struct{}

// ReadGrid decodes the image and maps each byte through the wind component
// encoding. Non-grayscale images are converted through their color model.
func (*PNGReader) ReadGrid(path string) (domain.SampleGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.SampleGrid{}, fmt.Errorf("open raster: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return domain.SampleGrid{}, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	grid := domain.NewSampleGrid(bounds.Dy(), bounds.Dx())

	if gray, ok := img.(*image.Gray); ok {
		for row := 0; row < grid.Rows; row++ {
			pix := gray.Pix[row*gray.Stride : row*gray.Stride+grid.Cols]
			for col, b := range pix {
				grid.Set(row, col, domain.DecodeComponent(b))
			}
		}
		return grid, nil
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row)).(color.Gray)
			grid.Set(row, col, domain.DecodeComponent(g.Y))
		}
	}
	return grid, nil
}
