// Package tags normalizes free-text tags and interests so that inputs
// differing only by emoji decoration, case, or spacing map to the same
// stored value.
package tags

import (
	"strings"
	"unicode"
)

var emojiRanges = []struct{ lo, hi rune }{
	{0x1F300, 0x1F5FF}, // symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F700, 0x1F77F},
	{0x1F780, 0x1F7FF},
	{0x1F800, 0x1F8FF},
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA00, 0x1FAFF},
	{0x2600, 0x26FF}, // misc symbols (coffee, umbrella, ...)
	{0x2700, 0x27BF}, // dingbats
	{0x2300, 0x23FF}, // misc technical (watch, hourglass)
	{0xFE00, 0xFE0F}, // variation selectors
	{0x200D, 0x200D}, // zero-width joiner
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng.lo && r <= rng.hi {
			return true
		}
	}
	return false
}

// StripEmojis removes emoji glyphs, trims the result and collapses
// internal whitespace runs to single spaces.
func StripEmojis(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !isEmoji(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Capitalize title-cases each whitespace-delimited word.
func Capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// PrepareForStorage returns the canonical stored form of a tag.
func PrepareForStorage(s string) string {
	return Capitalize(StripEmojis(s))
}

// Equal reports whether two tags normalize to the same stored value.
func Equal(a, b string) bool {
	return strings.EqualFold(PrepareForStorage(a), PrepareForStorage(b))
}

// Normalize canonicalizes a list of tags, dropping empties and
// duplicates while preserving first-seen order.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		norm := PrepareForStorage(t)
		if norm == "" {
			continue
		}
		key := strings.ToLower(norm)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, norm)
	}
	return out
}
