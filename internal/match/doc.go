// Package match turns raw evidence into per-app candidates.
//
// Two matchers share the Candidate type:
//
//   - Text searches an OCR string for every key of the alias index, falling
//     through full-text, per-line, partial multi-word, keyword and
//     (optionally) fuzzy strategies per entry.
//   - Colors compares sampled RGB colors with each entry's brand colors.
//
// # Text Strategies
//
//	Strategy   Confidence
//	full-text  weight + min(occurrences*5, 15) + 10 if in the first 30%,
//	           capped at 95 (canonical), 93 (package) or 90 (alias)
//	line       85
//	partial    70 + 10 per word found, capped at 95
//	keyword    60 + 3 per rune, capped at 95
//	fuzzy      65 - 10 per edit
//
// Full-text, partial and keyword search a flattened copy of the text in
// which symbols other than @.,!?- are spaces. The line strategy searches the
// raw lines, so keys containing symbols ("disney+") are still found there.
// Keys shorter than four runes only match whole words.
//
// # Colors
//
// A sample within ColorHitDistance of a brand color is a hit. The entry
// scores 100 minus the best hit distance.
//
// Both matchers are pure functions of their input and the read-only
// index/catalog; they are safe to call concurrently.
package match
