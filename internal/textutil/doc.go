// Package textutil compares short strings by character n-gram fingerprints.
//
// A fingerprint counts the bigrams of a word padded with boundary markers, so
// "kain" yields ^k ka ai in n^. Cosine similarity between fingerprints stays
// high for single-letter slips and transpositions and drops to zero for
// unrelated words, which makes it a cheap spelling-closeness measure.
package textutil
