// Package rank merges candidates from both matchers into the final result
// list: one result per canonical name, highest confidence first, capped.
package rank

import (
	"sort"

	"github.com/ironsheep/app-finder-mcp/internal/match"
)

// Output caps. Callers may ask for fewer or more results than DefaultCap
// but never more than MaxCap.
const (
	DefaultCap = 6
	MaxCap     = 12
)

// MethodFallback marks a substituted result rather than a detection.
const MethodFallback = "fallback"

// Result is what callers receive. It is a plain value with no references
// back into the catalog.
type Result struct {
	CanonicalName       string `json:"canonical_name"`
	PackageID           string `json:"package_id"`
	StoreURL            string `json:"store_url,omitempty"`
	IconRef             string `json:"icon_ref,omitempty"`
	Confidence          int    `json:"confidence"`
	DetectionMethod     string `json:"detection_method"`
	EvidenceDescription string `json:"evidence_description"`

	// order is the catalog position, kept for deterministic tie-breaks when
	// a ranked list is ranked again.
	order int
	text  bool
}

// Order returns the catalog position of the result's entry.
func (r Result) Order() int {
	return r.order
}

// NewResult builds a result for a catalog position. Used by callers that
// synthesize results outside the matchers.
func NewResult(order int, r Result) Result {
	r.order = order
	return r
}

// EffectiveCap resolves a requested cap: below 1 means DefaultCap and
// anything above MaxCap is clamped.
func EffectiveCap(c int) int {
	switch {
	case c < 1:
		return DefaultCap
	case c > MaxCap:
		return MaxCap
	default:
		return c
	}
}

// Rank deduplicates candidates by canonical name, keeping the higher
// confidence and preferring text evidence on ties, sorts by confidence
// descending with catalog order breaking ties, and truncates to cap.
func Rank(cands []match.Candidate, limit int) []Result {
	results := make([]Result, 0, len(cands))
	for _, c := range cands {
		results = append(results, Result{
			CanonicalName:       c.Entry.Name,
			PackageID:           c.Entry.PackageID,
			StoreURL:            c.Entry.StoreURL,
			IconRef:             c.Entry.IconURL,
			Confidence:          clamp(c.Confidence),
			DetectionMethod:     string(c.Strategy),
			EvidenceDescription: c.Evidence,
			order:               c.Entry.Order,
			text:                c.Source == match.SourceText,
		})
	}
	return Results(results, limit)
}

// Results ranks already built results. Ranking a ranked list with the same
// cap returns it unchanged.
func Results(results []Result, limit int) []Result {
	best := make(map[string]int, len(results))
	merged := make([]Result, 0, len(results))
	for _, r := range results {
		r.Confidence = clamp(r.Confidence)
		i, seen := best[r.CanonicalName]
		if !seen {
			best[r.CanonicalName] = len(merged)
			merged = append(merged, r)
			continue
		}
		if better(r, merged[i]) {
			merged[i] = r
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].order < merged[j].order
	})

	if n := EffectiveCap(limit); len(merged) > n {
		merged = merged[:n]
	}
	return merged
}

func better(a, b Result) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.text && !b.text
}

func clamp(v int) int {
	return max(0, min(100, v))
}
