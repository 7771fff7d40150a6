package textutil

import (
	"math"
	"strings"
)

const boundary = '^'

// Fingerprint represents a bigram-frequency vector for one piece of text.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from the bigrams of each
// whitespace-separated word in text. Returns nil for blank text.
func NewFingerprint(text string) *Fingerprint {
	grams := Bigrams(text)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{grams: counts, norm: math.Sqrt(norm)}
}

// Bigrams lowercases text and returns the bigrams of every word, each word
// padded with a boundary marker on both sides.
func Bigrams(text string) []string {
	var out []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		runes := make([]rune, 0, len(word)+2)
		runes = append(runes, boundary)
		runes = append(runes, []rune(word)...)
		runes = append(runes, boundary)
		for i := 0; i+1 < len(runes); i++ {
			out = append(out, string(runes[i:i+2]))
		}
	}
	return out
}

// GramCount returns the number of distinct bigrams in the fingerprint.
func (f *Fingerprint) GramCount() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}
