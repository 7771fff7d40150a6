package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexicon maps folded closed-class words and frequent open-class words to a tag.
var lexicon = map[string]string{
	// case markers
	"ang": TagAdp, "ng": TagAdp, "sa": TagAdp, "nang": TagAdp,
	"si": TagAdp, "sina": TagAdp, "ni": TagAdp, "nina": TagAdp,
	"kay": TagAdp, "kina": TagAdp, "para": TagAdp, "mula": TagAdp, "tungkol": TagAdp,
	"mga": TagDet,

	// pronouns and demonstratives
	"ako": TagPron, "ko": TagPron, "akin": TagPron,
	"ikaw": TagPron, "ka": TagPron, "mo": TagPron, "iyo": TagPron,
	"siya": TagPron, "niya": TagPron, "kaniya": TagPron, "kanya": TagPron,
	"tayo": TagPron, "natin": TagPron, "atin": TagPron,
	"kami": TagPron, "namin": TagPron, "amin": TagPron,
	"kayo": TagPron, "ninyo": TagPron, "inyo": TagPron,
	"sila": TagPron, "nila": TagPron, "kanila": TagPron,
	"ito": TagPron, "iyan": TagPron, "iyon": TagPron, "'yan": TagPron, "'yon": TagPron,
	"nito": TagPron, "niyan": TagPron, "niyon": TagPron,
	"sino": TagPron, "ano": TagPron, "alin": TagPron,

	// conjunctions
	"at": TagCConj, "o": TagCConj, "pero": TagCConj, "ngunit": TagCConj,
	"subalit": TagCConj, "saka": TagCConj,
	"kung": TagSConj, "kapag": TagSConj, "pag": TagSConj, "dahil": TagSConj,
	"sapagkat": TagSConj, "habang": TagSConj, "upang": TagSConj, "kasi": TagSConj,
	"kaya": TagSConj,

	// adverbs
	"ngayon": TagAdv, "bukas": TagAdv, "kahapon": TagAdv, "mamaya": TagAdv,
	"kanina": TagAdv, "dito": TagAdv, "diyan": TagAdv, "doon": TagAdv,
	"palagi": TagAdv, "lagi": TagAdv, "talaga": TagAdv, "din": TagAdv,
	"rin": TagAdv, "lang": TagAdv, "lamang": TagAdv, "muna": TagAdv,
	"agad": TagAdv, "madalas": TagAdv, "saan": TagAdv, "kailan": TagAdv,
	"bakit": TagAdv, "paano": TagAdv, "gaano": TagAdv, "ilan": TagAdv,

	// particles, linkers and negation
	"na": TagPart, "pa": TagPart, "po": TagPart, "ho": TagPart, "ba": TagPart,
	"nga": TagPart, "naman": TagPart, "hindi": TagPart, "huwag": TagPart,
	"sana": TagPart, "daw": TagPart, "raw": TagPart, "yata": TagPart,
	"pala": TagPart, "kaya't": TagPart, "ay": TagPart,

	// numerals
	"isa": TagNum, "dalawa": TagNum, "tatlo": TagNum, "apat": TagNum,
	"lima": TagNum, "anim": TagNum, "pito": TagNum, "walo": TagNum,
	"siyam": TagNum, "sampu": TagNum, "sandaan": TagNum, "isandaan": TagNum,

	// interjections
	"oo": TagIntj, "opo": TagIntj, "oho": TagIntj, "salamat": TagIntj,
	"paalam": TagIntj, "kumusta": TagIntj, "kamusta": TagIntj, "sige": TagIntj,
	"aba": TagIntj, "naku": TagIntj, "hay": TagIntj, "hoy": TagIntj,

	// existential predicates
	"may": TagVerb, "mayroon": TagVerb, "meron": TagVerb, "wala": TagVerb,
	"gusto": TagVerb, "ayaw": TagVerb, "kailangan": TagVerb, "dapat": TagVerb,

	// adjectives that do not carry ma-
	"bago": TagAdj, "luma": TagAdj, "pangit": TagAdj, "pagod": TagAdj,
	"gutom": TagAdj, "busog": TagAdj, "mura": TagAdj, "mahal": TagAdj,

	// nouns the affix rules would misread
	"umaga": TagNoun, "isda": TagNoun, "ilog": TagNoun, "inay": TagNoun,
	"itay": TagNoun, "ina": TagNoun, "ama": TagNoun, "nanay": TagNoun,
	"tatay": TagNoun, "kapatid": TagNoun, "kaibigan": TagNoun, "magulang": TagNoun,
	"maestro": TagNoun, "maestra": TagNoun, "manok": TagNoun, "mangga": TagNoun,
	"mansanas": TagNoun, "mata": TagNoun, "mukha": TagNoun, "lalaki": TagNoun,
	"babae": TagNoun, "bata": TagNoun, "guro": TagNoun, "bahay": TagNoun,
	"tubig": TagNoun, "kanin": TagNoun, "aklat": TagNoun, "libro": TagNoun,
	"paaralan": TagNoun, "pagkain": TagNoun, "hapunan": TagNoun, "tanghalian": TagNoun,
	"almusal": TagNoun, "gabi": TagNoun, "araw": TagNoun, "linggo": TagNoun,
	"buwan": TagNoun, "taon": TagNoun, "pangalan": TagNoun, "pamilya": TagNoun,
	"simbahan": TagNoun, "palengke": TagNoun, "tindahan": TagNoun, "sinigang": TagNoun,
	"pinya": TagNoun, "ibon": TagNoun, "aso": TagNoun, "pusa": TagNoun,
}

// properMarkers precede personal names.
var properMarkers = map[string]bool{"si": true, "sina": true, "ni": true, "nina": true, "kay": true, "kina": true}

// Tagger assigns part-of-speech tags without external help. It is stateless
// and safe for concurrent use.
type Tagger struct{}

// NewTagger returns the heuristic tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag splits text into tokens and tags each one.
func (t *Tagger) Tag(text string) []Token {
	parts := words(text)
	tokens := make([]Token, 0, len(parts))
	sentenceStart := true
	prevFolded := ""
	for _, part := range parts {
		tok := t.tagWord(part, sentenceStart, prevFolded)
		tokens = append(tokens, tok)
		if tok.POS == TagPunct {
			sentenceStart = isSentenceEnd(part)
			continue
		}
		sentenceStart = false
		prevFolded = Fold(part)
	}
	return tokens
}

func isSentenceEnd(punct string) bool {
	return punct == "." || punct == "!" || punct == "?"
}

func (t *Tagger) tagWord(word string, sentenceStart bool, prev string) Token {
	if !strings.ContainsFunc(word, isWordRune) {
		return Token{Text: word, POS: TagPunct}
	}
	first, _ := utf8.DecodeRuneInString(strings.TrimLeft(word, "'’"))
	if isNumber(word) {
		return Token{Text: word, POS: TagNum, Lemma: word}
	}

	folded := Fold(word)
	if pos, ok := lexicon[folded]; ok {
		if properMarkers[prev] && pos == TagNoun && unicode.IsUpper(first) {
			return Token{Text: word, POS: TagPropn, Lemma: word}
		}
		return Token{Text: word, POS: pos, Lemma: folded}
	}
	if unicode.IsUpper(first) && (!sentenceStart || properMarkers[prev]) {
		return Token{Text: word, POS: TagPropn, Lemma: word}
	}
	if root, ok := stripLinker(folded); ok {
		if pos, known := lexicon[root]; known {
			return Token{Text: word, POS: pos, Lemma: root}
		}
		if pos, lemma, ok := classifyAffixes(root); ok && pos == TagAdj {
			return Token{Text: word, POS: pos, Lemma: lemma}
		}
	}
	if pos, lemma, ok := classifyAffixes(folded); ok {
		return Token{Text: word, POS: pos, Lemma: lemma}
	}
	return Token{Text: word, POS: TagNoun, Lemma: folded}
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

// stripLinker removes the -ng linker from a vowel-final root ("magandang" ->
// "maganda").
func stripLinker(word string) (string, bool) {
	if len(word) < 4 || !strings.HasSuffix(word, "ng") {
		return "", false
	}
	root := strings.TrimSuffix(word, "ng")
	if !isVowel(lastByte(root)) {
		return "", false
	}
	return root, true
}

func classifyAffixes(word string) (string, string, bool) {
	if utf8.RuneCountInString(word) < 4 {
		return "", "", false
	}

	for _, prefix := range []string{"nakikipag", "makikipag", "nakipag", "makipag", "nagpa", "magpa", "nag", "mag"} {
		// Without a hyphen, mag + vowel is ma- on a g-initial root ("maganda").
		if rest, hyphen, ok := cutPrefix(word, prefix); ok && len(rest) >= 2 && (hyphen || !isVowel(rest[0])) {
			return TagVerb, verbRoot(rest), true
		}
	}
	if rest, hyphen, ok := cutPrefix(word, "pag"); ok && len(rest) >= 3 && (hyphen || !isVowel(rest[0])) {
		return TagNoun, verbRoot(rest), true
	}
	if rest, _, ok := cutPrefix(word, "ma"); ok && len(rest) >= 3 {
		if reduplicated(rest) {
			return TagVerb, dropReduplication(rest), true
		}
		return TagAdj, rest, true
	}
	if rest, _, ok := cutPrefix(word, "na"); ok && len(rest) >= 3 && !isVowel(rest[0]) {
		return TagVerb, verbRoot(rest), true
	}
	if hasInfix(word, "um") || hasInfix(word, "in") {
		return TagVerb, verbRoot(word), true
	}
	if strings.HasPrefix(word, "um") && len(word) >= 5 && isVowel(word[2]) {
		return TagVerb, word[2:], true
	}
	if strings.HasPrefix(word, "in") && len(word) >= 5 && isVowel(word[2]) {
		return TagVerb, word[2:], true
	}
	if reduplicated(word) {
		return TagVerb, dropReduplication(word), true
	}
	if word[0] == 'i' && len(word) >= 5 && !isVowel(word[1]) {
		return TagVerb, verbRoot(word[1:]), true
	}
	for _, suffix := range []string{"hin", "in"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return TagVerb, strings.TrimSuffix(word, suffix), true
		}
	}
	return "", "", false
}

// cutPrefix strips prefix and an optional joining hyphen.
func cutPrefix(word, prefix string) (string, bool, bool) {
	rest, ok := strings.CutPrefix(word, prefix)
	if !ok {
		return "", false, false
	}
	trimmed, hyphen := strings.CutPrefix(rest, "-")
	return trimmed, hyphen, true
}

// hasInfix reports a consonant-initial word with the infix after its first
// consonant, followed by a vowel ("kumain", "sinulat").
func hasInfix(word, infix string) bool {
	if len(word) < 5 || isVowel(word[0]) {
		return false
	}
	return word[1:3] == infix && isVowel(word[3])
}

// reduplicated reports a word whose first consonant-vowel syllable repeats,
// the mark of incomplete aspect ("kakain", "susulat").
func reduplicated(word string) bool {
	if len(word) < 5 {
		return false
	}
	if isVowel(word[0]) {
		return word[0] == word[1]
	}
	return isVowel(word[1]) && word[0:2] == word[2:4]
}

// verbRoot peels infixes and reduplication off a verb stem.
func verbRoot(stem string) string {
	if hasInfix(stem, "um") || hasInfix(stem, "in") {
		stem = stem[:1] + stem[3:]
	}
	if reduplicated(stem) {
		stem = dropReduplication(stem)
	}
	return stem
}

func dropReduplication(word string) string {
	if isVowel(word[0]) {
		return word[1:]
	}
	return word[2:]
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func lastByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}
