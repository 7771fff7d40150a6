package nlp

// Source identifies which backend produced an answer.
type Source string

const (
	SourceService  Source = "service"
	SourceFallback Source = "fallback"
)

// Universal part-of-speech tags emitted by the tagger.
const (
	TagAdj   = "ADJ"
	TagAdp   = "ADP"
	TagAdv   = "ADV"
	TagCConj = "CCONJ"
	TagDet   = "DET"
	TagIntj  = "INTJ"
	TagNoun  = "NOUN"
	TagNum   = "NUM"
	TagPart  = "PART"
	TagPron  = "PRON"
	TagPropn = "PROPN"
	TagPunct = "PUNCT"
	TagSConj = "SCONJ"
	TagVerb  = "VERB"
	TagX     = "X"
)

// Token is one tagged word or punctuation mark.
type Token struct {
	Text  string `json:"text"`
	POS   string `json:"pos"`
	Lemma string `json:"lemma,omitempty"`
}

// TagResult is the answer to a part-of-speech request.
type TagResult struct {
	Tokens []Token `json:"tokens"`
	Source Source  `json:"source"`
}

// Verification is the answer to a sentence check.
type Verification struct {
	Valid    bool    `json:"valid"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	Tokens   []Token `json:"tokens,omitempty"`
	Source   Source  `json:"source"`
}

// maxInputRunes bounds the text accepted by Tag and Verify.
const maxInputRunes = 2000
