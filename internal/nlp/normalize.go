package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns text in NFC with runs of whitespace collapsed.
func Normalize(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// Fold lowercases text and strips diacritics, so that "Opò" and "opo" compare
// equal. Tagalog orthography marks stress with accents that learners rarely type.
func Fold(text string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, text)
	if err != nil {
		stripped = text
	}
	return cases.Lower(language.Filipino).String(stripped)
}

// words splits text into word and punctuation tokens. Hyphens and apostrophes
// inside a word are kept, as in "mag-aral" or "'yan".
func words(text string) []string {
	var (
		out     []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, string(current))
			current = current[:0]
		}
	}
	rs := []rune(Normalize(text))
	for i, r := range rs {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '-' || r == '\'' || r == '’':
			inside := len(current) > 0 && i+1 < len(rs) && isWordRune(rs[i+1])
			leading := len(current) == 0 && r != '-' && i+1 < len(rs) && isWordRune(rs[i+1])
			if inside || leading {
				current = append(current, r)
				continue
			}
			flush()
			out = append(out, string(r))
		case isWordRune(r):
			current = append(current, r)
		default:
			flush()
			out = append(out, string(r))
		}
	}
	flush()
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
