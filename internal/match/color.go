package match

import (
	"fmt"
	"math"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
)

const (
	// ColorHitDistance is the RGB distance under which a sample counts as a
	// brand color hit. Empirical cutoff.
	ColorHitDistance = 50.0

	// colorHitDistanceSq is ColorHitDistance squared, compared exactly.
	colorHitDistanceSq = 2500

	// colorMinScore is the score an entry must exceed to be reported.
	colorMinScore = 40.0
)

// Colors matches sampled colors against every entry with brand colors.
// Each sample is compared with each brand color; the closest hit decides the
// confidence and every pair under ColorHitDistance counts as a hit.
func Colors(samples []catalog.RGB, cat *catalog.Catalog) []Candidate {
	if len(samples) == 0 {
		return nil
	}

	var out []Candidate
	for _, e := range cat.Entries() {
		if len(e.BrandColors) == 0 {
			continue
		}

		hits := 0
		best := math.Inf(1)
		var bestBrand catalog.RGB
		for _, s := range samples {
			for _, b := range e.BrandColors {
				if s.DistanceSq(b) >= colorHitDistanceSq {
					continue
				}
				d := s.Distance(b)
				hits++
				if d < best {
					best = d
					bestBrand = b
				}
			}
		}
		if hits == 0 {
			continue
		}

		score := 100 - best
		if score <= colorMinScore {
			continue
		}

		out = append(out, Candidate{
			Entry:      e,
			Strategy:   StrategyColor,
			Source:     SourceColor,
			Confidence: clampConfidence(int(math.Round(score))),
			Matched:    bestBrand.Hex(),
			Distance:   best,
			Hits:       hits,
			Evidence:   fmt.Sprintf("brand color %s at distance %.1f (%d %s)", bestBrand.Hex(), best, hits, plural(hits, "hit", "hits")),
		})
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
