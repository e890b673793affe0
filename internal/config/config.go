// Package config loads runtime settings for app-finder from an optional TOML
// file, applies environment overrides and fills in defaults.
//
// Every field has a usable default, so an empty or missing file yields a
// working configuration:
//
//	cfg, err := config.Load("")       // defaults + environment
//	cfg, err := config.Load("a.toml") // file + environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables that override file values.
const (
	EnvLogLevel   = "APP_FINDER_LOG_LEVEL"
	EnvLogFormat  = "APP_FINDER_LOG_FORMAT"
	EnvCatalog    = "APP_FINDER_CATALOG"
	EnvHTTPAddr   = "APP_FINDER_HTTP_ADDR"
	EnvOCRLang    = "APP_FINDER_OCR_LANGUAGE"
	EnvResultsCap = "APP_FINDER_RESULTS_CAP"
)

// Defaults for the matching pipeline. The confidence constants are tuned
// policy carried over from the first product release.
const (
	DefaultResultsCap     = 6
	DefaultMinConfidence  = 50
	DefaultFallbackCount  = 6
	DefaultPaletteSize    = 8
	DefaultThumbnailWidth = 200
	DefaultOCRWidth       = 1200
	DefaultOCRLanguage    = "eng+rus"
	DefaultHTTPAddr       = ":8080"
)

// Config is the root of the TOML document.
type Config struct {
	Log      LoggerConfig   `toml:"log"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Matching MatchingConfig `toml:"matching"`
	Fallback FallbackConfig `toml:"fallback"`
	OCR      OCRConfig      `toml:"ocr"`
	Scan     ScanConfig     `toml:"scan"`
	HTTP     HTTPConfig     `toml:"http"`
}

// LoggerConfig selects level and output format.
type LoggerConfig struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, error
	Format string `toml:"format"` // console or json
}

// CatalogConfig points at an app catalog that replaces the embedded one.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// MatchingConfig holds defaults applied to every recognition request.
type MatchingConfig struct {
	Cap           int  `toml:"cap"`
	MinConfidence int  `toml:"min_confidence"`
	Fuzzy         bool `toml:"fuzzy"`
	Calibrate     bool `toml:"calibrate"`
}

// FallbackConfig controls the substitute result set.
type FallbackConfig struct {
	// Apps names the fallback pool explicitly, most popular first. When empty
	// the pool is every catalog entry with a popularity rank.
	Apps  []string `toml:"apps"`
	Count int      `toml:"count"`
	// Seed enables shuffled selection when non-zero. Zero keeps the
	// deterministic popularity order.
	Seed uint64 `toml:"seed"`
}

// OCRConfig configures the Tesseract pass.
type OCRConfig struct {
	Language   string `toml:"language"`
	Preprocess bool   `toml:"preprocess"`
	Width      int    `toml:"width"`
}

// ScanConfig configures color evidence extraction.
type ScanConfig struct {
	PaletteSize    int `toml:"palette_size"`
	ThumbnailWidth int `toml:"thumbnail_width"`
}

// HTTPConfig configures the optional REST surface.
type HTTPConfig struct {
	Addr string `toml:"addr"`
	Mode string `toml:"mode"` // gin mode: debug, release, test
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LoggerConfig{Level: "info", Format: "console"},
		Matching: MatchingConfig{
			Cap:           DefaultResultsCap,
			MinConfidence: DefaultMinConfidence,
		},
		Fallback: FallbackConfig{Count: DefaultFallbackCount},
		OCR: OCRConfig{
			Language:   DefaultOCRLanguage,
			Preprocess: true,
			Width:      DefaultOCRWidth,
		},
		Scan: ScanConfig{
			PaletteSize:    DefaultPaletteSize,
			ThumbnailWidth: DefaultThumbnailWidth,
		},
		HTTP: HTTPConfig{Addr: DefaultHTTPAddr, Mode: "release"},
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides and normalizes out-of-range values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

// Parse decodes a TOML document over the defaults without consulting the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv(EnvOCRLang); v != "" {
		c.OCR.Language = v
	}
	if v := os.Getenv(EnvResultsCap); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvResultsCap, v, err)
		}
		c.Matching.Cap = n
	}
	return nil
}

func (c *Config) normalize() {
	if c.Matching.Cap <= 0 {
		c.Matching.Cap = DefaultResultsCap
	}
	if c.Matching.MinConfidence <= 0 || c.Matching.MinConfidence > 100 {
		c.Matching.MinConfidence = DefaultMinConfidence
	}
	if c.Fallback.Count <= 0 {
		c.Fallback.Count = DefaultFallbackCount
	}
	if c.Scan.PaletteSize <= 0 {
		c.Scan.PaletteSize = DefaultPaletteSize
	}
	if c.Scan.ThumbnailWidth <= 0 {
		c.Scan.ThumbnailWidth = DefaultThumbnailWidth
	}
	if c.OCR.Language == "" {
		c.OCR.Language = DefaultOCRLanguage
	}
	if c.OCR.Width <= 0 {
		c.OCR.Width = DefaultOCRWidth
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format != "json" {
		c.Log.Format = "console"
	}
}
