// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// MaxVocabulary caps the vocabulary at the most frequent terms across the
// corpus.
const MaxVocabulary = 4096

// vectorizer holds a fitted term-frequency/inverse-document-frequency
// vocabulary. Once fitted it is immutable; queries against it never re-fit.
type vectorizer struct {
	vocab map[string]int // term → column
	idf   []float64      // column → inverse document frequency
}

// tokenize lower-cases text and splits it into alphanumeric runs of at
// least two characters, dropping stop words.
func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 {
			tok := cur.String()
			if !isStopword(tok) {
				tokens = append(tokens, tok)
			}
		}
		cur.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// fitVectorizer builds the vocabulary over the corpus, keeping the
// maxFeatures terms with the highest total frequency (ties broken
// lexicographically), and computes smoothed idf weights:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func fitVectorizer(corpus []string, maxFeatures int) *vectorizer {
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			termFreq[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(termFreq))
	for t := range termFreq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termFreq[terms[i]] != termFreq[terms[j]] {
			return termFreq[terms[i]] > termFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	// Stable column order independent of frequency ranking.
	sort.Strings(terms)

	v := &vectorizer{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(corpus))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
	return v
}

// transform maps text to an L2-normalized sparse tf-idf vector. Terms
// outside the fitted vocabulary contribute nothing.
func (v *vectorizer) transform(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, tok := range tokenize(text) {
		if col, ok := v.vocab[tok]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return counts
	}

	var norm float64
	for col, tf := range counts {
		w := tf * v.idf[col]
		counts[col] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for col := range counts {
		counts[col] /= norm
	}
	return counts
}

// dot returns the inner product of two sparse vectors. For L2-normalized
// vectors this is the cosine similarity, in [0,1] since weights are
// non-negative.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}
