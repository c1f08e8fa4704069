package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Scale uniformly downscales img by ratio in (0, 1]. Ratio 1 returns img
// unchanged. Dimensions are multiplied by the ratio and rounded, with a
// floor of one pixel per axis; pixel values are aggregated bilinearly.
func Scale(img *image.Gray, ratio float64) *image.Gray {
	if ratio == 1 {
		return img
	}

	bounds := img.Bounds()
	w := int(math.Round(float64(bounds.Dx()) * ratio))
	h := int(math.Round(float64(bounds.Dy()) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, bounds, draw.Src, nil)
	return dst
}
