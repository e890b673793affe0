// Package fallback substitutes a recognisably low-confidence guess when the
// evidence produced nothing usable, so callers always have a list to show.
//
// The substitute is drawn from a pool of globally common apps. The default
// selector keeps the pool's popularity order, which makes the output exact
// and testable; Shuffled varies the selection through an injected random
// source.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/rank"
)

// Confidence band for substituted results.
const (
	BandTop   = 80
	BandStep  = 5
	BandFloor = 50

	DefaultMinConfidence = 50
	DefaultCount         = 6
)

// Reasons reported with a substitution.
const (
	ReasonNoEvidence    = "no evidence"
	ReasonNoMatches     = "no matches"
	ReasonLowConfidence = "all matches below confidence floor"
)

// Selector picks n entries from the pool, in output order.
type Selector func(pool []catalog.Entry, n int) []catalog.Entry

// PopularityOrder takes the first n pool entries as given.
func PopularityOrder(pool []catalog.Entry, n int) []catalog.Entry {
	n = min(n, len(pool))
	return append([]catalog.Entry(nil), pool[:n]...)
}

// Shuffled returns a selector that permutes the pool with src before taking
// n entries. The pool itself is not modified. The selector may be shared
// between goroutines.
func Shuffled(src rand.Source) Selector {
	var mu sync.Mutex
	rng := rand.New(src)
	return func(pool []catalog.Entry, n int) []catalog.Entry {
		out := append([]catalog.Entry(nil), pool...)
		mu.Lock()
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		mu.Unlock()
		return out[:min(n, len(out))]
	}
}

// Policy decides when results are too weak and what replaces them.
type Policy struct {
	Pool          []catalog.Entry
	Selector      Selector
	Count         int
	MinConfidence int
}

// New builds a policy over the catalog's popular entries. When names is
// non-empty it defines the pool instead, in the given order; unknown names
// are skipped. When neither yields an entry the pool is the catalog itself,
// in catalog order, so a non-empty catalog always has a substitute.
func New(cat *catalog.Catalog, names []string) (Policy, []string) {
	var (
		pool    []catalog.Entry
		missing []string
	)
	if len(names) == 0 {
		pool = cat.Popular()
	} else {
		for _, n := range names {
			e, ok := cat.Lookup(n)
			if !ok {
				missing = append(missing, n)
				continue
			}
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		pool = cat.Popular()
	}
	if len(pool) == 0 {
		pool = cat.Entries()
	}
	return Policy{
		Pool:          pool,
		Selector:      PopularityOrder,
		Count:         DefaultCount,
		MinConfidence: DefaultMinConfidence,
	}, missing
}

// Triggered reports whether results are empty or all below the floor.
func (p Policy) Triggered(results []rank.Result) bool {
	floor := p.minConfidence()
	for _, r := range results {
		if r.Confidence >= floor {
			return false
		}
	}
	return true
}

// EnsureNonEmpty returns results unchanged when at least one reaches the
// confidence floor and the substitute list otherwise. A policy from New never
// has an empty pool; a hand-built one with no pool returns results as given.
func (p Policy) EnsureNonEmpty(results []rank.Result, reason string) []rank.Result {
	if !p.Triggered(results) {
		return results
	}
	if reason == "" {
		reason = ReasonNoMatches
		if len(results) > 0 {
			reason = ReasonLowConfidence
		}
	}

	sel := p.Selector
	if sel == nil {
		sel = PopularityOrder
	}
	count := p.Count
	if count < 1 {
		count = DefaultCount
	}

	picked := sel(p.Pool, count)
	if len(picked) == 0 {
		return results
	}

	out := make([]rank.Result, 0, len(picked))
	for i, e := range picked {
		out = append(out, rank.NewResult(e.Order, rank.Result{
			CanonicalName:       e.Name,
			PackageID:           e.PackageID,
			StoreURL:            e.StoreURL,
			IconRef:             e.IconURL,
			Confidence:          BandConfidence(i),
			DetectionMethod:     rank.MethodFallback,
			EvidenceDescription: fmt.Sprintf("fallback: %s; popular app #%d", reason, i+1),
		}))
	}
	return out
}

// BandConfidence is the confidence of the i-th substituted result.
func BandConfidence(i int) int {
	return max(BandFloor, BandTop-i*BandStep)
}

func (p Policy) minConfidence() int {
	if p.MinConfidence <= 0 {
		return DefaultMinConfidence
	}
	return p.MinConfidence
}
