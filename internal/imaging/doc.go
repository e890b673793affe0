// Package imaging turns a home-screen screenshot or photo into color
// evidence and prepares it for OCR.
//
// # Loading
//
// ImageCache decodes PNG, JPEG and GIF files once and keeps them in memory,
// keyed by absolute path. EXIF orientation is applied on decode so photos
// taken sideways come out upright.
//
// # Regions
//
// CropRegion cuts a named part of the screen ("dock", "grid", "top-half",
// "center", ...). Coordinates are 0-based with the origin at the top-left;
// for rectangles the minimum corner is inclusive and the maximum exclusive.
//
// # Palette
//
// Palette reduces an image to a handful of representative colors:
//
//  1. shrink to a thumbnail (bild transform.Resize)
//  2. quantize opaque pixels to a 16-level grid per channel
//  3. merge quantized colors closer than GroupDistance, most frequent first
//  4. drop neutral grays, blacks and whites unless asked to keep them
//
// The result feeds the color matcher as brand-color samples.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and never modify their input image.
package imaging
