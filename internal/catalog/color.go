package catalog

import (
	"fmt"
	"math"

	"fortio.org/safecast"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ParseHex parses "#RRGGBB" (or "#RGB").
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// FromInts converts wire integers to an RGB, rejecting channels outside 0-255.
func FromInts(r, g, b int) (RGB, error) {
	r8, err := safecast.Conv[uint8](r)
	if err != nil {
		return RGB{}, fmt.Errorf("red channel %d: %w", r, err)
	}
	g8, err := safecast.Conv[uint8](g)
	if err != nil {
		return RGB{}, fmt.Errorf("green channel %d: %w", g, err)
	}
	b8, err := safecast.Conv[uint8](b)
	if err != nil {
		return RGB{}, fmt.Errorf("blue channel %d: %w", b, err)
	}
	return RGB{R: r8, G: g8, B: b8}, nil
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Colorful converts to a go-colorful color.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// DistanceSq is the squared Euclidean distance in 0-255 RGB space. It is
// exact, so threshold comparisons should use it.
func (c RGB) DistanceSq(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Distance is the Euclidean distance between two colors in 0-255 RGB space.
func (c RGB) Distance(o RGB) float64 {
	return math.Sqrt(float64(c.DistanceSq(o)))
}
