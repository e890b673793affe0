// Package scan collects evidence from a home-screen image and hands it to
// the matching engine.
//
// A scan loads the image (cached), optionally crops a named region, and then
// runs OCR and palette extraction concurrently. OCR is best effort: when it
// fails the scan continues with color evidence alone and records the error.
// Only a failure to load or crop the image fails the scan.
package scan

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/app-finder-mcp/internal/config"
	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/imaging"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
	"github.com/ironsheep/app-finder-mcp/internal/ocr"
)

// TextExtractor reads text from an image. ocr.Tesseract implements it.
type TextExtractor interface {
	Extract(ctx context.Context, img image.Image) (ocr.Result, error)
	Method() string
}

// Options tune one scan. Zero values take the scanner defaults.
type Options struct {
	// Region names the part of the screen to read; see imaging.RegionNames.
	Region string
	// PaletteSize caps the number of sampled colors.
	PaletteSize int
	// SkipOCR matches on colors only.
	SkipOCR bool
	// SkipColors matches on text only.
	SkipColors bool
}

// Evidence is what a scan extracted from the image.
type Evidence struct {
	Image    imaging.Info           `json:"image"`
	Region   string                 `json:"region,omitempty"`
	Text     *engine.TextEvidence   `json:"text,omitempty"`
	Palette  []imaging.PaletteColor `json:"palette,omitempty"`
	OCRError string                 `json:"ocr_error,omitempty"`
}

// Result pairs the extracted evidence with the engine's report.
type Result struct {
	engine.Report
	Evidence Evidence `json:"evidence"`
}

// Scanner is safe for concurrent use.
type Scanner struct {
	eng            *engine.Engine
	cache          *imaging.ImageCache
	text           TextExtractor
	paletteSize    int
	thumbnailWidth int
}

// New creates a scanner. extractor may be nil, in which case scans use
// color evidence only.
func New(eng *engine.Engine, cache *imaging.ImageCache, extractor TextExtractor, cfg config.ScanConfig) *Scanner {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	s := &Scanner{
		eng:            eng,
		cache:          cache,
		text:           extractor,
		paletteSize:    cfg.PaletteSize,
		thumbnailWidth: cfg.ThumbnailWidth,
	}
	if s.paletteSize <= 0 {
		s.paletteSize = config.DefaultPaletteSize
	}
	if s.thumbnailWidth <= 0 {
		s.thumbnailWidth = config.DefaultThumbnailWidth
	}
	return s
}

// Cache returns the image cache the scanner loads through.
func (s *Scanner) Cache() *imaging.ImageCache {
	return s.cache
}

// ThumbnailWidth is the width images are reduced to before palette sampling.
func (s *Scanner) ThumbnailWidth() int {
	return s.thumbnailWidth
}

// Scan reads the image at path and recognizes the apps on it.
func (s *Scanner) Scan(ctx context.Context, path string, opts Options, match engine.Options) (*Result, error) {
	ev, err := s.Collect(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	rep := s.eng.Recognize(engine.Evidence{
		Text:   ev.Text,
		Colors: imaging.Colors(ev.Palette),
	}, match)
	return &Result{Report: rep, Evidence: ev}, nil
}

// Collect loads the image at path and extracts text and color evidence.
func (s *Scanner) Collect(ctx context.Context, path string, opts Options) (Evidence, error) {
	img, info, err := s.cache.Load(path)
	if err != nil {
		return Evidence{}, err
	}
	ev, err := s.CollectImage(ctx, img, opts)
	if err != nil {
		return Evidence{}, err
	}
	ev.Image = info
	return ev, nil
}

// CollectImage extracts evidence from an already decoded image.
func (s *Scanner) CollectImage(ctx context.Context, img image.Image, opts Options) (Evidence, error) {
	region, err := imaging.CropRegion(img, opts.Region)
	if err != nil {
		return Evidence{}, fmt.Errorf("failed to crop image: %w", err)
	}

	b := img.Bounds()
	ev := Evidence{
		Image:  imaging.Info{Width: b.Dx(), Height: b.Dy()},
		Region: opts.Region,
	}
	size := opts.PaletteSize
	if size <= 0 {
		size = s.paletteSize
	}

	g, gctx := errgroup.WithContext(ctx)

	if !opts.SkipOCR && s.text != nil {
		g.Go(func() error {
			res, err := s.text.Extract(gctx, region)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warn().Err(err).Str("component", "scan").Msg("OCR failed, continuing with colors only")
				ev.OCRError = err.Error()
				return nil
			}
			method := res.Method
			if method == "" {
				method = s.text.Method()
			}
			ev.Text = &engine.TextEvidence{
				Text:          res.Text,
				OCRConfidence: res.Confidence,
				Method:        method,
			}
			return nil
		})
	}

	if !opts.SkipColors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev.Palette = imaging.Palette(region, imaging.PaletteOptions{
				Size:           size,
				ThumbnailWidth: s.thumbnailWidth,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Evidence{}, fmt.Errorf("scan interrupted: %w", err)
	}

	logger.Debug().
		Str("component", "scan").
		Bool("text", ev.Text != nil).
		Int("colors", len(ev.Palette)).
		Msg("evidence collected")

	return ev, nil
}
