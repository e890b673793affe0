package match

import "github.com/ironsheep/app-finder-mcp/internal/catalog"

// Strategy names the rule that produced a candidate.
type Strategy string

const (
	StrategyFullText Strategy = "full-text"
	StrategyLine     Strategy = "line"
	StrategyPartial  Strategy = "partial"
	StrategyKeyword  Strategy = "keyword"
	StrategyFuzzy    Strategy = "fuzzy"
	StrategyColor    Strategy = "color"
)

// Source is the evidence modality a candidate came from.
type Source string

const (
	SourceText  Source = "text"
	SourceColor Source = "color"
)

// Candidate is one matcher finding. Candidates live for a single request and
// are handed straight to the ranker.
type Candidate struct {
	Entry      catalog.Entry
	Strategy   Strategy
	Source     Source
	Confidence int

	// Evidence is the human-readable description carried into the result.
	Evidence string

	// Matched is the key, keyword or brand color hex that fired.
	Matched string

	// Distance is the best color distance (color) or edit distance (fuzzy).
	Distance float64

	// Hits counts key occurrences (text) or sample/brand pairs under the
	// threshold (color).
	Hits int
}

func clampConfidence(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
