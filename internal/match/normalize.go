package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// excerptContext is the number of runes kept on each side of a match.
const excerptContext = 30

// shortKeyRunes is the length below which keys must sit on word boundaries.
// Two-letter aliases like "wa" or "tg" would otherwise fire inside any word.
const shortKeyRunes = 4

// preparedText holds the forms of one OCR string the strategies search.
type preparedText struct {
	// orig is the NFKC form with its original case, used for excerpts.
	orig []rune
	// lower is orig lowercased rune by rune, so indexes line up with orig.
	lower []rune
	// flat is lower with symbols turned into spaces and whitespace
	// collapsed. flatPos maps each flat rune back to its index in orig.
	flat    []rune
	flatPos []int
}

func prepare(text string) preparedText {
	orig := []rune(norm.NFKC.String(text))
	lower := make([]rune, len(orig))
	for i, r := range orig {
		lower[i] = unicode.ToLower(r)
	}

	flat := make([]rune, 0, len(lower))
	flatPos := make([]int, 0, len(lower))
	pendingSpace := false
	for i, r := range lower {
		if !keepRune(r) || unicode.IsSpace(r) {
			pendingSpace = len(flat) > 0
			continue
		}
		if pendingSpace {
			flat = append(flat, ' ')
			flatPos = append(flatPos, i-1)
			pendingSpace = false
		}
		flat = append(flat, r)
		flatPos = append(flatPos, i)
	}

	return preparedText{orig: orig, lower: lower, flat: flat, flatPos: flatPos}
}

func keepRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '@', '.', ',', '!', '?', '-':
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// findAll returns the start index of every non-overlapping occurrence of key
// in hay. Keys shorter than shortKeyRunes only match as whole words.
func findAll(hay, key []rune) []int {
	if len(key) == 0 || len(key) > len(hay) {
		return nil
	}
	boundary := len(key) < shortKeyRunes

	var hits []int
	for i := 0; i+len(key) <= len(hay); {
		if !runesEqual(hay[i:i+len(key)], key) {
			i++
			continue
		}
		end := i + len(key)
		if boundary && ((i > 0 && isWordRune(hay[i-1])) || (end < len(hay) && isWordRune(hay[end]))) {
			i++
			continue
		}
		hits = append(hits, i)
		i = end
	}
	return hits
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// excerpt cuts orig[start:end] plus surrounding context, flattens newlines
// and marks trimmed ends with "...".
func excerpt(orig []rune, start, end int) string {
	from := max(0, start-excerptContext)
	to := min(len(orig), end+excerptContext)

	s := strings.Join(strings.Fields(string(orig[from:to])), " ")
	if from > 0 {
		s = "..." + s
	}
	if to < len(orig) {
		s += "..."
	}
	return s
}

// flatSpan maps a [start,end) range in flat text back to orig indexes.
func (p preparedText) flatSpan(start, end int) (int, int) {
	return p.flatPos[start], p.flatPos[end-1] + 1
}
