package ml

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// TfidfVectorizer turns free-text descriptions into L2-normalized TF-IDF
// vectors over a capped vocabulary. The vocabulary keeps the most frequent
// terms of the training corpus.
type TfidfVectorizer struct {
	MaxFeatures int

	vocab []string
	index map[string]int
	idf   []float64
}

// Tokenize lowercases the text and splits it into letter/digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Fit builds the vocabulary and IDF weights from the corpus.
func (v *TfidfVectorizer) Fit(corpus []string) {
	termCount := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(doc) {
			termCount[tok]++
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}

	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	// Most frequent first; alphabetical tie-break keeps the cap stable.
	sort.Slice(terms, func(a, b int) bool {
		if termCount[terms[a]] != termCount[terms[b]] {
			return termCount[terms[a]] > termCount[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	v.vocab = terms
	v.index = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, t := range terms {
		v.index[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
}

// Transform vectorizes docs against the fitted vocabulary.
func (v *TfidfVectorizer) Transform(docs []string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(v.vocab))
		for _, tok := range Tokenize(doc) {
			if j, ok := v.index[tok]; ok {
				row[j] += v.idf[j]
			}
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		out[i] = row
	}
	return out
}

// FitTransform fits on the corpus and returns its vectorization.
func (v *TfidfVectorizer) FitTransform(corpus []string) [][]float64 {
	v.Fit(corpus)
	return v.Transform(corpus)
}

// VocabularySize returns the number of terms kept by Fit.
func (v *TfidfVectorizer) VocabularySize() int {
	return len(v.vocab)
}
