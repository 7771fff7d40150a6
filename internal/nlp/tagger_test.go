package nlp

import (
	"reflect"
	"testing"
)

func TestFoldStripsAccents(t *testing.T) {
	cases := map[string]string{
		"Opò":      "opo",
		"KUMAIN":   "kumain",
		"Salamàt!": "salamat!",
		"bukás":    "bukas",
	}
	for input, want := range cases {
		if got := Fold(input); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestWordsSplitsPunctuation(t *testing.T) {
	got := words("  Mag-aral ka,  'yan ang\tgusto ko!")
	want := []string{"Mag-aral", "ka", ",", "'yan", "ang", "gusto", "ko", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("words = %q, want %q", got, want)
	}
}

func TestTaggerTagsSentence(t *testing.T) {
	tagger := NewTagger()
	tokens := tagger.Tag("Kumain si Maria ng masarap na mangga.")

	want := []struct {
		text, pos, lemma string
	}{
		{"Kumain", TagVerb, "kain"},
		{"si", TagAdp, "si"},
		{"Maria", TagPropn, "Maria"},
		{"ng", TagAdp, "ng"},
		{"masarap", TagAdj, "sarap"},
		{"na", TagPart, "na"},
		{"mangga", TagNoun, "mangga"},
		{".", TagPunct, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Text != w.text || got.POS != w.pos || got.Lemma != w.lemma {
			t.Fatalf("token %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestTaggerVerbMorphology(t *testing.T) {
	cases := []struct {
		word  string
		pos   string
		lemma string
	}{
		{"bumili", TagVerb, "bili"},
		{"sinulat", TagVerb, "sulat"},
		{"kakain", TagVerb, "kain"},
		{"magluluto", TagVerb, "luto"},
		{"mag-aral", TagVerb, "aral"},
		{"nagluto", TagVerb, "luto"},
		{"matutulog", TagVerb, "tulog"},
		{"umalis", TagVerb, "alis"},
		{"ibigay", TagVerb, "bigay"},
		{"basahin", TagVerb, "basa"},
		{"maganda", TagAdj, "ganda"},
		{"magandang", TagAdj, "ganda"},
		{"pagsulat", TagNoun, "sulat"},
		{"umaga", TagNoun, "umaga"},
		{"isang", TagNum, "isa"},
		{"bahay", TagNoun, "bahay"},
	}
	tagger := NewTagger()
	for _, tc := range cases {
		tokens := tagger.Tag("ang " + tc.word)
		got := tokens[1]
		if got.POS != tc.pos || got.Lemma != tc.lemma {
			t.Fatalf("%s: got %s/%s, want %s/%s", tc.word, got.POS, got.Lemma, tc.pos, tc.lemma)
		}
	}
}

func TestTaggerCapitalisation(t *testing.T) {
	tagger := NewTagger()
	tokens := tagger.Tag("Pumunta kami sa Maynila. Bahay ito.")
	if tokens[3].POS != TagPropn {
		t.Fatalf("expected Maynila to be PROPN, got %+v", tokens[3])
	}
	if tokens[5].POS != TagNoun {
		t.Fatalf("sentence-initial Bahay should stay NOUN, got %+v", tokens[5])
	}
	if tokens[0].POS != TagVerb {
		t.Fatalf("expected Pumunta to be VERB, got %+v", tokens[0])
	}
}

func TestTaggerNumbers(t *testing.T) {
	tokens := NewTagger().Tag("May 25 na aso")
	if tokens[1].POS != TagNum {
		t.Fatalf("expected digits to be NUM, got %+v", tokens[1])
	}
}

func TestVerifyStructure(t *testing.T) {
	tagger := NewTagger()
	cases := []struct {
		sentence string
		valid    bool
		score    float64
	}{
		{"Kumain ako.", true, 1},
		{"Maganda ang bahay.", true, 1},
		{"Guro si Maria.", true, 1},
		{"Kumain.", false, 0},
		{"Kumain ng mangga.", false, 0.5},
		{"ang bahay", false, 0.5},
	}
	for _, tc := range cases {
		got := tagger.Verify(tc.sentence, "")
		if got.Valid != tc.valid || got.Score != tc.score {
			t.Fatalf("%q: valid=%v score=%v, want %v %v (%s)", tc.sentence, got.Valid, got.Score, tc.valid, tc.score, got.Feedback)
		}
		if got.Feedback == "" {
			t.Fatalf("%q: expected feedback", tc.sentence)
		}
	}
}

func TestVerifyAgainstExpected(t *testing.T) {
	tagger := NewTagger()

	exact := tagger.Verify("Salamát po!", "salamat po")
	if !exact.Valid || exact.Score != 1 {
		t.Fatalf("expected accent-insensitive match, got %+v", exact)
	}

	reordered := tagger.Verify("po salamat", "salamat po")
	if reordered.Valid || reordered.Score != 1 {
		t.Fatalf("expected reordered words to score 1 but be invalid, got %+v", reordered)
	}

	partial := tagger.Verify("kumain ako", "kumain ako ng isda")
	if partial.Valid || partial.Score != 0.5 {
		t.Fatalf("expected half score, got %+v", partial)
	}
	if partial.Feedback != "Subukan muli. Missing: ng, isda." {
		t.Fatalf("unexpected feedback %q", partial.Feedback)
	}
}

func TestVerifyAgainstExpectedReportsMisspelling(t *testing.T) {
	tagger := NewTagger()

	got := tagger.Verify("Kumian ako ng isda.", "Kumain ako ng isda.")
	if got.Valid || got.Score != 0.88 {
		t.Fatalf("expected partial credit for a misspelling, got %+v", got)
	}
	if got.Feedback != `Halos tama! Check the spelling: "kumian" should be "kumain".` {
		t.Fatalf("unexpected feedback %q", got.Feedback)
	}

	unrelated := tagger.Verify("ikaw ng isda", "ako ng isda")
	if unrelated.Score != 0.67 || unrelated.Feedback != "Subukan muli. Missing: ako." {
		t.Fatalf("unrelated words must not count as misspellings, got %+v", unrelated)
	}
}
