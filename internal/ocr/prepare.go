package ocr

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Preprocessing parameters. Icon labels are small light-on-dark or
// dark-on-light text, so the image is enlarged and its contrast raised.
const (
	DefaultWidth   = 1200
	contrastBoost  = 20
	sharpenSigma   = 1.0
	upscaleLimit   = 2.0
	downscaleLimit = 0.5
)

// Prepare converts img to grayscale, raises contrast, sharpens and scales it
// toward width. Scaling is limited to 2x up and 2x down so tiny crops are not
// blown up into noise and large photos keep small labels legible. A width of
// zero uses DefaultWidth.
func Prepare(img image.Image, width int) *image.NRGBA {
	if width <= 0 {
		width = DefaultWidth
	}

	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, contrastBoost)
	out = imaging.Sharpen(out, sharpenSigma)

	w := out.Bounds().Dx()
	if w == 0 {
		return out
	}
	scale := float64(width) / float64(w)
	scale = min(upscaleLimit, max(downscaleLimit, scale))
	if target := int(math.Round(float64(w) * scale)); target != w {
		out = imaging.Resize(out, target, 0, imaging.Lanczos)
	}
	return out
}
