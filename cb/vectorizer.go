// Copyright 2024 bookend Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cb

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/chewxy/math32"
)

// tokenize lowercases a text and splits it into word tokens of at least two
// characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) >= 2 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// ngrams expands tokens into all n-grams of length 1..maxN, joined by a
// single space, in document order.
func ngrams(tokens []string, maxN int) []string {
	if maxN <= 1 {
		return tokens
	}
	grams := make([]string, 0, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// vectorizer turns documents into fixed-dimensional term count vectors over
// a vocabulary learned from a corpus. With tfidf enabled, counts are
// reweighted by smoothed inverse document frequency and L2 normalized.
type vectorizer struct {
	ngrams     int
	tfidf      bool
	vocabulary map[string]int
	idf        []float32
}

func newVectorizer(ngramRange int, tfidf bool) *vectorizer {
	return &vectorizer{ngrams: ngramRange, tfidf: tfidf}
}

// fit learns the vocabulary (terms in lexicographic order) and document
// frequencies from a corpus.
func (v *vectorizer) fit(documents []string) {
	terms := make(map[string]int)
	for _, document := range documents {
		seen := make(map[string]bool)
		for _, gram := range ngrams(tokenize(document), v.ngrams) {
			if !seen[gram] {
				terms[gram]++
				seen[gram] = true
			}
		}
	}
	sorted := make([]string, 0, len(terms))
	for term := range terms {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)
	v.vocabulary = make(map[string]int, len(sorted))
	v.idf = make([]float32, len(sorted))
	n := float64(len(documents))
	for i, term := range sorted {
		v.vocabulary[term] = i
		// smoothed inverse document frequency
		v.idf[i] = float32(math.Log((1+n)/(1+float64(terms[term]))) + 1)
	}
}

// transform maps a document onto the learned vocabulary. Terms outside the
// vocabulary are dropped.
func (v *vectorizer) transform(document string) []float32 {
	vector := make([]float32, len(v.vocabulary))
	for _, gram := range ngrams(tokenize(document), v.ngrams) {
		if index, exist := v.vocabulary[gram]; exist {
			vector[index]++
		}
	}
	if v.tfidf {
		for i := range vector {
			vector[i] *= v.idf[i]
		}
		normalize(vector)
	}
	return vector
}

// fitTransform fits on a corpus and returns one vector per document.
func (v *vectorizer) fitTransform(documents []string) [][]float32 {
	v.fit(documents)
	vectors := make([][]float32, len(documents))
	for i, document := range documents {
		vectors[i] = v.transform(document)
	}
	return vectors
}

// normalize scales a vector to unit L2 norm in place. The zero vector is
// left untouched.
func normalize(vector []float32) {
	sum := float32(0)
	for _, value := range vector {
		sum += value * value
	}
	if sum == 0 {
		return
	}
	norm := math32.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
}

// cosineDistance computes 1 - cos(a, b). Vectors without a norm are at the
// maximal distance 1.
func cosineDistance(a, b []float32) float32 {
	product, squareA, squareB := float32(0), float32(0), float32(0)
	for i := range a {
		product += a[i] * b[i]
		squareA += a[i] * a[i]
		squareB += b[i] * b[i]
	}
	if squareA == 0 || squareB == 0 {
		return 1
	}
	return 1 - product/(math32.Sqrt(squareA)*math32.Sqrt(squareB))
}
