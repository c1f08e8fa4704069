package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

// Writer persists an encoded magnitude raster.
type Writer interface {
	WriteImage(path string, img *image.Gray) error
}

// WriterFor picks a writer by output extension: .webp selects lossless
// WebP, anything else PNG.
func WriterFor(path string) Writer {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return &WebPWriter{}
	}
	return &PNGWriter{}
}

// EncodeGray converts a magnitude grid in m/s to an 8-bit grayscale image
// using the magnitude byte encoding. NaN cells become the no-data byte.
func EncodeGray(grid domain.SampleGrid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, grid.Cols, grid.Rows))
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			img.Pix[r*img.Stride+c] = domain.EncodeMagnitude(grid.At(r, c))
		}
	}
	return img
}

// PNGWriter writes 8-bit grayscale PNG files.
type PNGWriter struct{}

// WriteImage implements Writer.
func (*PNGWriter) WriteImage(path string, img *image.Gray) error {
	return writeAtomic(path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// WebPWriter writes lossless WebP files.
type WebPWriter struct{}

// WriteImage implements Writer.
func (*WebPWriter) WriteImage(path string, img *image.Gray) error {
	return writeAtomic(path, func(w io.Writer) error {
		return webp.Encode(w, img, &webp.Options{Lossless: true})
	})
}

// writeAtomic encodes into a temp file in the target directory and renames
// it into place, so a failed run never leaves a partial output behind.
func writeAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}
