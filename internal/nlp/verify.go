package nlp

import (
	"fmt"
	"strings"

	"salita/internal/textutil"
)

// typoSimilarity is the bigram cosine above which a wrong word counts as a
// misspelling of a missing one.
const typoSimilarity = 0.5

// subjectMarkers introduce the topic of a Tagalog clause.
var subjectMarkers = map[string]bool{"ang": true, "si": true, "sina": true}

// argumentMarkers introduce any noun phrase argument.
var argumentMarkers = map[string]bool{
	"ang": true, "si": true, "sina": true, "ng": true, "ni": true, "nina": true,
	"sa": true, "kay": true, "kina": true, "mga": true,
}

// Verify checks a sentence with the heuristic tagger. When expected is set the
// sentence is graded against it; otherwise it is checked for a predicate and
// an argument.
func (t *Tagger) Verify(sentence, expected string) Verification {
	tokens := t.Tag(sentence)
	if strings.TrimSpace(expected) != "" {
		return compareExpected(tokens, t.Tag(expected))
	}
	return checkStructure(tokens)
}

func compareExpected(got, want []Token) Verification {
	gotWords := foldedWords(got)
	wantWords := foldedWords(want)

	if strings.Join(gotWords, " ") == strings.Join(wantWords, " ") {
		return Verification{Valid: true, Score: 1, Feedback: "Tama! Perfect match.", Tokens: got}
	}

	remaining := make(map[string]int, len(wantWords))
	for _, w := range wantWords {
		remaining[w]++
	}
	matched := 0.0
	var extra []string
	for _, w := range gotWords {
		if remaining[w] > 0 {
			remaining[w]--
			matched++
			continue
		}
		extra = append(extra, w)
	}

	var missing []string
	for _, w := range wantWords {
		if remaining[w] > 0 {
			missing = append(missing, w)
			remaining[w]--
		}
	}

	// Pair leftover words that are spelled almost like a missing one; each
	// pair earns half credit.
	var typos []string
	for _, w := range extra {
		best, bestScore := -1, 0.0
		for i, m := range missing {
			if score := textutil.Similarity(w, m); score >= typoSimilarity && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			continue
		}
		typos = append(typos, fmt.Sprintf("%q should be %q", w, missing[best]))
		missing = append(missing[:best], missing[best+1:]...)
		matched += 0.5
	}

	denominator := max(len(gotWords), len(wantWords))
	score := 0.0
	if denominator > 0 {
		score = matched / float64(denominator)
	}

	var feedback string
	switch {
	case len(missing) == 0 && len(typos) > 0:
		feedback = fmt.Sprintf("Halos tama! Check the spelling: %s.", strings.Join(typos, ", "))
	case len(missing) == 0 && len(gotWords) == len(wantWords):
		feedback = "Halos tama! The words are right but the order differs."
	case len(missing) == 0:
		feedback = "Halos tama! Remove the extra words."
	case len(typos) > 0:
		feedback = fmt.Sprintf("Subukan muli. Missing: %s. Check the spelling: %s.", strings.Join(missing, ", "), strings.Join(typos, ", "))
	default:
		feedback = fmt.Sprintf("Subukan muli. Missing: %s.", strings.Join(missing, ", "))
	}
	return Verification{Valid: false, Score: roundScore(score), Feedback: feedback, Tokens: got}
}

func checkStructure(tokens []Token) Verification {
	var (
		predicate  bool
		argument   bool
		words      int
		lastMarker string
	)
	for i, tok := range tokens {
		if tok.POS == TagPunct {
			continue
		}
		words++
		switch tok.POS {
		case TagVerb, TagAdj:
			predicate = true
		case TagPron, TagPropn:
			argument = true
		case TagNoun, TagNum:
			switch {
			case subjectMarkers[lastMarker]:
				argument = true
			case lastMarker == "" && hasLaterSubject(tokens[i+1:]):
				// Equational clause: "Guro si Maria."
				predicate = true
			}
		}
		if folded := Fold(tok.Text); argumentMarkers[folded] && folded != "mga" {
			lastMarker = folded
		}
	}

	switch {
	case words < 2:
		return Verification{Valid: false, Score: 0, Feedback: "A sentence needs at least two words.", Tokens: tokens}
	case predicate && argument:
		return Verification{Valid: true, Score: 1, Feedback: "Mahusay! The sentence looks well-formed.", Tokens: tokens}
	case predicate:
		return Verification{Valid: false, Score: 0.5, Feedback: "Missing a subject. Add a pronoun or a noun marked with ang or si.", Tokens: tokens}
	case argument:
		return Verification{Valid: false, Score: 0.5, Feedback: "Missing a predicate. Add a verb or an adjective.", Tokens: tokens}
	default:
		return Verification{Valid: false, Score: 0, Feedback: "Subukan muli. No predicate or subject found.", Tokens: tokens}
	}
}

func hasLaterSubject(tokens []Token) bool {
	for _, tok := range tokens {
		if subjectMarkers[Fold(tok.Text)] {
			return true
		}
	}
	return false
}

func foldedWords(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.POS == TagPunct {
			continue
		}
		out = append(out, Fold(tok.Text))
	}
	return out
}

func roundScore(score float64) float64 {
	return float64(int(score*100+0.5)) / 100
}
