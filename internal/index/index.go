// Package index maps every textual name of an application (canonical name,
// package fragment, alias) to its catalog entry with a relative weight.
//
// Keys are stored lowercased and NFKC-normalized so that full-width or
// composed forms produced by OCR compare equal to the catalog spelling. The
// first registration of a key wins; later owners are recorded as collisions
// and logged.
package index

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
)

// Key weights. Higher means a more trustworthy name.
const (
	WeightCanonical = 100
	WeightPackage   = 90
	WeightAlias     = 80
)

// KeyKind says where a key came from.
type KeyKind string

const (
	KindCanonical KeyKind = "canonical"
	KindPackage   KeyKind = "package"
	KindAlias     KeyKind = "alias"
)

// Key is one searchable name.
type Key struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Kind   KeyKind `json:"kind"`
}

// Collision records a key that two entries tried to claim.
type Collision struct {
	Key      string  `json:"key"`
	Owner    string  `json:"owner"`
	Rejected string  `json:"rejected"`
	Kind     KeyKind `json:"kind"`
}

func (c Collision) String() string {
	return fmt.Sprintf("key %q (%s) of %s already owned by %s", c.Key, c.Kind, c.Rejected, c.Owner)
}

// Index is built once per catalog and is read-only afterwards.
type Index struct {
	cat        *catalog.Catalog
	keys       map[string]Key
	byName     map[string][]Key
	collisions []Collision
}

// Build registers the keys of every entry in catalog order.
func Build(cat *catalog.Catalog) *Index {
	idx := &Index{
		cat:    cat,
		keys:   make(map[string]Key),
		byName: make(map[string][]Key),
	}

	for _, e := range cat.Entries() {
		idx.register(e.Name, e.Name, WeightCanonical, KindCanonical)
		if frag := PackageFragment(e.PackageID); frag != "" {
			idx.register(frag, e.Name, WeightPackage, KindPackage)
		}
		for _, alias := range e.Aliases {
			idx.register(alias, e.Name, WeightAlias, KindAlias)
		}
	}

	for _, c := range idx.collisions {
		logger.Warn().
			Str("component", "index").
			Str("key", c.Key).
			Str("owner", c.Owner).
			Str("rejected", c.Rejected).
			Msg("alias collision")
	}
	logger.Debug().Str("component", "index").Int("keys", len(idx.keys)).Msg("alias index built")

	return idx
}

func (idx *Index) register(raw, name string, weight int, kind KeyKind) {
	k := Normalize(raw)
	if k == "" {
		return
	}
	if existing, ok := idx.keys[k]; ok {
		// Same entry naming itself twice (alias equal to the canonical name).
		if existing.Name == name {
			return
		}
		idx.collisions = append(idx.collisions, Collision{
			Key:      k,
			Owner:    existing.Name,
			Rejected: name,
			Kind:     kind,
		})
		return
	}
	key := Key{Key: k, Name: name, Weight: weight, Kind: kind}
	idx.keys[k] = key
	idx.byName[name] = append(idx.byName[name], key)
}

// Normalize returns the lookup form of a name: NFKC, lowercase, inner
// whitespace collapsed to single spaces.
func Normalize(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// PackageFragment turns a package id into a readable fragment:
// "com.google.android.youtube" becomes "google android youtube" and
// "org.telegram.messenger" becomes "org telegram messenger".
func PackageFragment(pkg string) string {
	p := strings.ToLower(strings.TrimSpace(pkg))
	p = strings.TrimPrefix(p, "com.")
	p = strings.TrimPrefix(p, "android.")
	return strings.Join(strings.FieldsFunc(p, func(r rune) bool { return r == '.' }), " ")
}

// Catalog returns the catalog the index was built from.
func (idx *Index) Catalog() *catalog.Catalog {
	return idx.cat
}

// Lookup finds the owner of a key, normalizing it first.
func (idx *Index) Lookup(key string) (Key, bool) {
	k, ok := idx.keys[Normalize(key)]
	return k, ok
}

// KeysFor returns the keys owned by an entry in registration order.
func (idx *Index) KeysFor(name string) []Key {
	return append([]Key(nil), idx.byName[name]...)
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// Collisions returns every rejected registration in build order.
func (idx *Index) Collisions() []Collision {
	return append([]Collision(nil), idx.collisions...)
}
