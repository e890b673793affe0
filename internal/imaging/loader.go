package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded screenshots and photos.
//
// Images are keyed by absolute path, so "shot.png" and "./shot.png" share an
// entry. Phone photos are rotated according to their EXIF orientation when
// decoded, so text on them reads upright for OCR.
//
// An entry is reused only while the file's modification time and size are
// unchanged; a screenshot overwritten under the same name is decoded again
// and replaces the old entry. Cached images remain in memory until Evict or
// Clear is called.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cached
}

type cached struct {
	img     image.Image
	info    Info
	modTime time.Time
	size    int64
}

func (e cached) current(fi os.FileInfo) bool {
	return e.size == fi.Size() && e.modTime.Equal(fi.ModTime())
}

// Info describes a loaded image.
type Info struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	FileSizeBytes int64  `json:"file_size_bytes,omitempty"`
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cached),
	}
}

// Load returns the decoded image at path, reading it from disk on first use
// and again whenever the file has changed since it was cached.
//
// Parameters:
//   - path: image file path. PNG, JPEG and GIF are supported.
//
// Returns:
//   - image.Image: the decoded, orientation-corrected image.
//   - Info: dimensions, detected format and file size.
//   - error: non-nil if the file cannot be opened or decoded.
func (c *ImageCache) Load(path string) (image.Image, Info, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to resolve image path: %w", err)
	}

	if fi, err := os.Stat(key); err == nil {
		c.mu.RLock()
		e, ok := c.images[key]
		c.mu.RUnlock()
		if ok && e.current(fi) {
			return e.img, e.info, nil
		}
	}

	f, err := os.Open(key)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to stat image: %w", err)
	}

	img, info, err := Decode(f)
	if err != nil {
		return nil, Info{}, err
	}
	info.FileSizeBytes = stat.Size()

	c.mu.Lock()
	c.images[key] = cached{img: img, info: info, modTime: stat.ModTime(), size: stat.Size()}
	c.mu.Unlock()

	return img, info, nil
}

// Decode reads an image from r, detecting its format and applying EXIF
// orientation.
func Decode(r io.ReadSeeker) (image.Image, Info, error) {
	_, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, Info{}, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	return img, Info{Width: b.Dx(), Height: b.Dy(), Format: format}, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cached)
	c.mu.Unlock()
}

// Evict removes one image. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.images, key)
	c.mu.Unlock()
}
