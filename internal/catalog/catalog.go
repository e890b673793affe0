package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/app-finder-mcp/internal/logger"
)

//go:embed apps.toml
var builtin []byte

// ErrEmptyCatalog is returned when no entry survives validation. The matching
// engine cannot work without at least one known app.
var ErrEmptyCatalog = errors.New("catalog has no usable entries")

const playStorePrefix = "https://play.google.com/store/apps/details?id="

// Entry is one known application. Entries are immutable after load; the
// slices they carry must be treated as read-only.
type Entry struct {
	// Name is the canonical name, unique within a catalog. It is the identity
	// key used for deduplication across the whole pipeline.
	Name string `json:"name"`

	// PackageID is the reverse-DNS package identifier (informational).
	PackageID string `json:"package_id"`

	StoreURL string `json:"store_url,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`

	// BrandColors are the reference colors for color evidence, in declared
	// order. Empty means the entry cannot be matched by color.
	BrandColors []RGB `json:"brand_colors,omitempty"`

	// Aliases are alternate names (other scripts, abbreviations).
	Aliases []string `json:"aliases,omitempty"`

	// Keywords are curated abbreviations and misspellings, distinct from
	// aliases and not registered in the alias index.
	Keywords []string `json:"keywords,omitempty"`

	// Popularity ranks the entry in the fallback pool; 1 is the most popular
	// and 0 keeps it out of the pool.
	Popularity int `json:"popularity,omitempty"`

	// Order is the position of the entry in the catalog.
	Order int `json:"-"`
}

// Catalog is the read-only set of known applications. It is safe for
// concurrent use because nothing mutates it after construction.
type Catalog struct {
	entries  []Entry
	byName   map[string]int
	warnings []string
}

type catalogFile struct {
	Apps []appRecord `toml:"app"`
}

type appRecord struct {
	Name        string   `toml:"name"`
	Package     string   `toml:"package"`
	StoreURL    string   `toml:"store_url"`
	Icon        string   `toml:"icon"`
	Aliases     []string `toml:"aliases"`
	Keywords    []string `toml:"keywords"`
	BrandColors []string `toml:"brand_colors"`
	Popularity  int      `toml:"popularity"`
}

// Default loads the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(builtin))
}

// LoadFile loads a catalog from a TOML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a TOML catalog. Malformed entries are dropped with a warning;
// only a catalog without any usable entry is an error.
func Parse(r io.Reader) (*Catalog, error) {
	var doc catalogFile
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	var warnings []string
	entries := make([]Entry, 0, len(doc.Apps))
	for i, rec := range doc.Apps {
		colors := make([]RGB, 0, len(rec.BrandColors))
		for _, hex := range rec.BrandColors {
			c, err := ParseHex(hex)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("entry %d (%s): dropped brand color %q: %v", i, rec.Name, hex, err))
				continue
			}
			colors = append(colors, c)
		}
		entries = append(entries, Entry{
			Name:        rec.Name,
			PackageID:   rec.Package,
			StoreURL:    rec.StoreURL,
			IconURL:     rec.Icon,
			BrandColors: colors,
			Aliases:     rec.Aliases,
			Keywords:    rec.Keywords,
			Popularity:  rec.Popularity,
		})
	}

	return build(entries, warnings)
}

// New builds a catalog from entries in the given order, applying the same
// validation as Parse.
func New(entries []Entry) (*Catalog, error) {
	return build(entries, nil)
}

func build(entries []Entry, warnings []string) (*Catalog, error) {
	c := &Catalog{
		entries:  make([]Entry, 0, len(entries)),
		byName:   make(map[string]int, len(entries)),
		warnings: warnings,
	}

	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			c.warnings = append(c.warnings, fmt.Sprintf("entry %d: missing canonical name, dropped", i))
			continue
		}
		key := strings.ToLower(e.Name)
		if _, dup := c.byName[key]; dup {
			c.warnings = append(c.warnings, fmt.Sprintf("entry %d: duplicate canonical name %q, dropped", i, e.Name))
			continue
		}

		e.PackageID = strings.TrimSpace(e.PackageID)
		if e.StoreURL == "" && e.PackageID != "" {
			e.StoreURL = playStorePrefix + e.PackageID
		}
		e.Aliases = cloneStrings(e.Aliases)
		e.Keywords = cloneStrings(e.Keywords)
		e.BrandColors = append([]RGB(nil), e.BrandColors...)
		e.Order = len(c.entries)

		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	for _, w := range c.warnings {
		logger.Warn().Str("component", "catalog").Msg(w)
	}

	if len(c.entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// At returns the entry at catalog position i.
func (c *Catalog) At(i int) Entry {
	return c.entries[i]
}

// Lookup finds an entry by canonical name, case-insensitively.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Popular returns entries with a popularity rank, most popular first. Equal
// ranks keep catalog order.
func (c *Catalog) Popular() []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Popularity > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity < out[j].Popularity
	})
	return out
}

// Warnings returns the data-integrity problems found while loading.
func (c *Catalog) Warnings() []string {
	return cloneStrings(c.warnings)
}

// Summary is the wire form of an entry, with brand colors as hex strings.
type Summary struct {
	Name        string   `json:"name"`
	PackageID   string   `json:"package_id"`
	StoreURL    string   `json:"store_url,omitempty"`
	IconURL     string   `json:"icon_url,omitempty"`
	BrandColors []string `json:"brand_colors,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Popularity  int      `json:"popularity,omitempty"`
}

// Summary returns the wire form of e.
func (e Entry) Summary() Summary {
	s := Summary{
		Name:       e.Name,
		PackageID:  e.PackageID,
		StoreURL:   e.StoreURL,
		IconURL:    e.IconURL,
		Aliases:    cloneStrings(e.Aliases),
		Keywords:   cloneStrings(e.Keywords),
		Popularity: e.Popularity,
	}
	for _, c := range e.BrandColors {
		s.BrandColors = append(s.BrandColors, c.Hex())
	}
	return s
}

// Summaries returns the wire form of every entry in catalog order.
func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Summary()
	}
	return out
}
