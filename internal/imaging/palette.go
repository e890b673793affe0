package imaging

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/transform"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
)

// Palette defaults.
const (
	// GroupDistance merges colors closer than this in 0-255 RGB space.
	GroupDistance = 30.0

	quantStep = 16
	minAlpha  = 128

	// Neutral limits: low saturation, or near black/white lightness.
	neutralSaturation = 0.15
	neutralDark       = 0.08
	neutralLight      = 0.92
)

// PaletteColor is one representative color and its share of the sampled
// pixels.
type PaletteColor struct {
	Hex        string      `json:"hex"`
	RGB        catalog.RGB `json:"rgb"`
	Percentage float64     `json:"percentage"`
}

// PaletteOptions tunes extraction.
type PaletteOptions struct {
	// Size is the maximum number of colors returned.
	Size int
	// ThumbnailWidth downsizes wider images before sampling. Zero samples
	// every pixel of the original.
	ThumbnailWidth int
	// KeepNeutral keeps grays, near-black and near-white colors, which
	// are otherwise dropped because they come from wallpapers and chrome
	// rather than icons.
	KeepNeutral bool
}

type colorBucket struct {
	rgb   catalog.RGB
	c     colorful.Color
	count int
}

// Palette extracts up to opts.Size representative colors from img.
//
// The image is shrunk to a thumbnail, every opaque pixel is quantized to a
// 16-level grid, and quantized colors are merged, most frequent first, into
// groups whose representative lies within GroupDistance. Groups come back by
// pixel share, largest first.
func Palette(img image.Image, opts PaletteOptions) []PaletteColor {
	if opts.Size <= 0 {
		return nil
	}
	thumb := Thumbnail(img, opts.ThumbnailWidth)
	b := thumb.Bounds()
	if b.Empty() {
		return nil
	}

	counts := make(map[catalog.RGB]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := thumb.At(x, y).RGBA()
			if a>>8 < minAlpha {
				continue
			}
			counts[catalog.RGB{
				R: quantize(r),
				G: quantize(g),
				B: quantize(bl),
			}]++
		}
	}

	buckets := make([]colorBucket, 0, len(counts))
	total := 0
	for rgb, n := range counts {
		total += n
		buckets = append(buckets, colorBucket{rgb: rgb, c: rgb.Colorful(), count: n})
	}
	sortBuckets(buckets)

	var groups []colorBucket
	for _, bk := range buckets {
		merged := false
		for i := range groups {
			if groups[i].c.DistanceRgb(bk.c)*255 < GroupDistance {
				groups[i].count += bk.count
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, bk)
		}
	}
	sortBuckets(groups)

	out := make([]PaletteColor, 0, opts.Size)
	for _, g := range groups {
		if !opts.KeepNeutral && IsNeutral(g.rgb) {
			continue
		}
		out = append(out, PaletteColor{
			Hex:        g.rgb.Hex(),
			RGB:        g.rgb,
			Percentage: float64(g.count) / float64(total) * 100,
		})
		if len(out) == opts.Size {
			break
		}
	}
	return out
}

// Colors returns just the RGB values of a palette.
func Colors(p []PaletteColor) []catalog.RGB {
	out := make([]catalog.RGB, len(p))
	for i, c := range p {
		out[i] = c.RGB
	}
	return out
}

// IsNeutral reports whether a color is a gray, near-black or near-white.
func IsNeutral(c catalog.RGB) bool {
	_, s, l := c.Colorful().Hsl()
	return s < neutralSaturation || l < neutralDark || l > neutralLight
}

// Thumbnail shrinks img to width (keeping aspect ratio) when it is wider.
func Thumbnail(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	return transform.Resize(img, width, height, transform.Box)
}

// quantize maps a 16-bit channel onto the center of its 16-level bucket so
// a flat color comes back close to where it started.
func quantize(v uint32) uint8 {
	q := (v >> 8) / quantStep * quantStep
	return uint8(q + quantStep/2 - 1)
}

// sortBuckets orders by count descending, then by hex for stable output.
func sortBuckets(bs []colorBucket) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].count != bs[j].count {
			return bs[i].count > bs[j].count
		}
		return bs[i].rgb.Hex() < bs[j].rgb.Hex()
	})
}
