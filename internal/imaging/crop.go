package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// Named screen regions. Home screens put the dock at the bottom and the
// status bar at the top, so scanning part of a screenshot is common.
var regions = map[string]func(w, h int) image.Rectangle{
	"full":         func(w, h int) image.Rectangle { return image.Rect(0, 0, w, h) },
	"top-half":     func(w, h int) image.Rectangle { return image.Rect(0, 0, w, h/2) },
	"bottom-half":  func(w, h int) image.Rectangle { return image.Rect(0, h/2, w, h) },
	"left-half":    func(w, h int) image.Rectangle { return image.Rect(0, 0, w/2, h) },
	"right-half":   func(w, h int) image.Rectangle { return image.Rect(w/2, 0, w, h) },
	"top-left":     func(w, h int) image.Rectangle { return image.Rect(0, 0, w/2, h/2) },
	"top-right":    func(w, h int) image.Rectangle { return image.Rect(w/2, 0, w, h/2) },
	"bottom-left":  func(w, h int) image.Rectangle { return image.Rect(0, h/2, w/2, h) },
	"bottom-right": func(w, h int) image.Rectangle { return image.Rect(w/2, h/2, w, h) },
	"center":       func(w, h int) image.Rectangle { return image.Rect(w/4, h/4, w-w/4, h-h/4) },
	// Bottom fifth, where launchers place the dock.
	"dock": func(w, h int) image.Rectangle { return image.Rect(0, h-h/5, w, h) },
	// Everything below the status bar and above the dock.
	"grid": func(w, h int) image.Rectangle { return image.Rect(0, h/20, w, h-h/5) },
}

// RegionNames lists the accepted region names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for n := range regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Crop extracts a rectangle from an image. The rectangle must lie inside
// the image bounds and be non-empty.
func Crop(img image.Image, r image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}
	return imaging.Crop(img, r), nil
}

// CropRegion extracts a named region. An empty name or "full" returns the
// image unchanged.
func CropRegion(img image.Image, name string) (image.Image, error) {
	if name == "" || name == "full" {
		return img, nil
	}
	rect, ok := regions[name]
	if !ok {
		return nil, fmt.Errorf("unknown region: %s", name)
	}
	b := img.Bounds()
	return Crop(img, rect(b.Dx(), b.Dy()).Add(b.Min))
}
