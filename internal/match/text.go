package match

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/index"
)

// Text strategy constants. The values are tuned policy from the first
// product release.
const (
	maxTextConfidence  = 95
	occurrenceStep     = 5
	maxOccurrenceBonus = 15
	positionBonus      = 10
	positionWindow     = 0.3

	lineConfidence = 85

	partialBase    = 70
	partialStep    = 10
	partialMinWord = 4

	keywordBase = 60
	keywordStep = 3

	fuzzyBase    = 65
	fuzzyStep    = 10
	fuzzyMinKey  = 5
	fuzzyLongKey = 8
)

// TextOptions tunes the text matcher.
type TextOptions struct {
	// Fuzzy enables the edit-distance strategy after the keyword pass.
	Fuzzy bool
}

// Text finds the catalog entries named in an OCR string. Entries are
// visited in catalog order and each is reported at most once, by the first
// strategy that fires: full-text, line, partial, keyword, then fuzzy.
func Text(text string, idx *index.Index, opts TextOptions) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	p := prepare(text)
	var tokens []string
	if opts.Fuzzy {
		tokens = fuzzyTokens(p.flat)
	}

	var out []Candidate
	for _, e := range idx.Catalog().Entries() {
		keys := idx.KeysFor(e.Name)

		c, ok := matchFullText(p, e, keys)
		if !ok {
			c, ok = matchLine(p, e, keys)
		}
		if !ok {
			c, ok = matchPartial(p, e)
		}
		if !ok {
			c, ok = matchKeyword(p, e)
		}
		if !ok && opts.Fuzzy {
			c, ok = matchFuzzy(tokens, e, keys)
		}
		if !ok {
			continue
		}

		c.Entry = e
		c.Source = SourceText
		c.Confidence = clampConfidence(c.Confidence)
		out = append(out, c)
	}
	return out
}

// keyCeiling keeps weaker keys strictly below a canonical hit on the same
// evidence: 95 for canonical, 93 for package fragments, 90 for aliases.
func keyCeiling(weight int) int {
	return maxTextConfidence - (index.WeightCanonical-weight)/4
}

func matchFullText(p preparedText, e catalog.Entry, keys []index.Key) (Candidate, bool) {
	var (
		best     Candidate
		bestKind index.KeyKind
		bestHits []int
		found    bool
	)
	for _, k := range keys {
		hits := findAll(p.flat, []rune(k.Key))
		if len(hits) == 0 {
			continue
		}
		conf := k.Weight + min(len(hits)*occurrenceStep, maxOccurrenceBonus)
		if float64(hits[0]) < positionWindow*float64(len(p.flat)) {
			conf += positionBonus
		}
		conf = min(conf, keyCeiling(k.Weight))
		if found && conf <= best.Confidence {
			continue
		}
		found = true
		bestHits = hits
		best = Candidate{
			Strategy:   StrategyFullText,
			Confidence: conf,
			Matched:    k.Key,
			Hits:       len(hits),
		}
		bestKind = k.Kind
	}
	if !found {
		return Candidate{}, false
	}

	start, end := p.flatSpan(bestHits[0], bestHits[0]+utf8.RuneCountInString(best.Matched))
	best.Evidence = fmt.Sprintf("%s %q found %dx near %q", bestKind, best.Matched, best.Hits, excerpt(p.orig, start, end))
	return best, true
}

func matchLine(p preparedText, e catalog.Entry, keys []index.Key) (Candidate, bool) {
	lineStart := 0
	lineNo := 1
	for i := 0; i <= len(p.lower); i++ {
		if i < len(p.lower) && p.lower[i] != '\n' {
			continue
		}
		line := p.lower[lineStart:i]
		for _, k := range keys {
			kr := []rune(k.Key)
			hits := findAll(line, kr)
			if len(hits) == 0 {
				continue
			}
			start := lineStart + hits[0]
			return Candidate{
				Strategy:   StrategyLine,
				Confidence: lineConfidence,
				Matched:    k.Key,
				Hits:       len(hits),
				Evidence:   fmt.Sprintf("%q on line %d: %q", k.Key, lineNo, excerpt(p.orig, start, start+len(kr))),
			}, true
		}
		lineStart = i + 1
		lineNo++
	}
	return Candidate{}, false
}

func matchPartial(p preparedText, e catalog.Entry) (Candidate, bool) {
	var words []string
	for _, w := range strings.Fields(index.Normalize(e.Name)) {
		if utf8.RuneCountInString(w) >= partialMinWord {
			words = append(words, w)
		}
	}
	if len(words) < 2 {
		return Candidate{}, false
	}

	found := 0
	firstAt, firstLen := -1, 0
	for _, w := range words {
		wr := []rune(w)
		hits := findAll(p.flat, wr)
		if len(hits) == 0 {
			continue
		}
		found++
		if firstAt < 0 {
			firstAt, firstLen = hits[0], len(wr)
		}
	}
	if found < max(1, len(words)-1) {
		return Candidate{}, false
	}

	start, end := p.flatSpan(firstAt, firstAt+firstLen)
	return Candidate{
		Strategy:   StrategyPartial,
		Confidence: min(partialBase+found*partialStep, maxTextConfidence),
		Matched:    e.Name,
		Hits:       found,
		Evidence:   fmt.Sprintf("%d of %d words of %q near %q", found, len(words), e.Name, excerpt(p.orig, start, end)),
	}, true
}

func matchKeyword(p preparedText, e catalog.Entry) (Candidate, bool) {
	for _, kw := range e.Keywords {
		key := index.Normalize(kw)
		kr := []rune(key)
		hits := findAll(p.flat, kr)
		if len(hits) == 0 {
			continue
		}
		start, end := p.flatSpan(hits[0], hits[0]+len(kr))
		return Candidate{
			Strategy:   StrategyKeyword,
			Confidence: min(keywordBase+len(kr)*keywordStep, maxTextConfidence),
			Matched:    key,
			Hits:       len(hits),
			Evidence:   fmt.Sprintf("keyword %q near %q", key, excerpt(p.orig, start, end)),
		}, true
	}
	return Candidate{}, false
}

func fuzzyTokens(flat []rune) []string {
	fields := strings.Fields(string(flat))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "@.,!?-")
		if utf8.RuneCountInString(f) >= fuzzyMinKey-1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// fuzzyLimit is the largest edit distance accepted for a key of n runes.
func fuzzyLimit(n int) int {
	switch {
	case n >= fuzzyLongKey:
		return 2
	case n >= fuzzyMinKey:
		return 1
	default:
		return 0
	}
}

func matchFuzzy(tokens []string, e catalog.Entry, keys []index.Key) (Candidate, bool) {
	var (
		best      Candidate
		bestDist  = -1
		bestToken string
	)
	for _, k := range keys {
		if k.Kind == index.KindPackage || strings.Contains(k.Key, " ") {
			continue
		}
		limit := fuzzyLimit(utf8.RuneCountInString(k.Key))
		if limit == 0 {
			continue
		}
		for _, tok := range tokens {
			d := levenshtein.ComputeDistance(tok, k.Key)
			if d == 0 || d > limit {
				continue
			}
			if bestDist < 0 || d < bestDist {
				bestDist = d
				bestToken = tok
				best = Candidate{Strategy: StrategyFuzzy, Matched: k.Key}
			}
		}
	}
	if bestDist < 0 {
		return Candidate{}, false
	}

	best.Distance = float64(bestDist)
	best.Hits = 1
	best.Confidence = fuzzyBase - fuzzyStep*bestDist
	best.Evidence = fmt.Sprintf("%q resembles %q (edit distance %d)", bestToken, best.Matched, bestDist)
	return best, true
}
