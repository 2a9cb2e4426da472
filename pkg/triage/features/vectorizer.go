package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// CountVectorizer maps messages to raw term counts over a vocabulary
// learned from the training messages. Terms are indexed in lexical order.
type CountVectorizer struct {
	Vocabulary map[string]int
	Terms      []string
	StopWords  []string

	analyzer Analyzer
	stops    map[string]struct{}
}

// NewCountVectorizer creates a vectorizer that tokenizes with analyzer and
// ignores the given stop words (compared after tokenization).
func NewCountVectorizer(analyzer Analyzer, stopWords []string) *CountVectorizer {
	v := &CountVectorizer{StopWords: append([]string(nil), stopWords...)}
	v.Bind(analyzer)
	return v
}

// Bind attaches the analyzer, which is not part of the serialized state.
func (v *CountVectorizer) Bind(analyzer Analyzer) {
	v.analyzer = analyzer
	v.stops = make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		v.stops[strings.ToLower(w)] = struct{}{}
	}
}

func (v *CountVectorizer) tokens(text string) []string {
	raw := v.analyzer.Tokenize(text)
	if len(v.stops) == 0 {
		return raw
	}
	out := raw[:0:0]
	for _, t := range raw {
		if _, stop := v.stops[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// Fit learns the vocabulary.
func (v *CountVectorizer) Fit(texts []string) error {
	_, err := v.FitTransform(texts)
	return err
}

// FitTransform learns the vocabulary and returns the count matrix of texts,
// tokenizing each message once.
func (v *CountVectorizer) FitTransform(texts []string) (*Matrix, error) {
	if v.analyzer == nil {
		return nil, fmt.Errorf("%w: count vectorizer has no analyzer", internalerr.ErrNotFitted)
	}

	docs := make([][]string, len(texts))
	seen := make(map[string]struct{})
	for i, text := range texts {
		docs[i] = v.tokens(text)
		for _, t := range docs[i] {
			seen[t] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary; messages contain only stop words or nothing", internalerr.ErrInvalidInput)
	}

	v.Terms = make([]string, 0, len(seen))
	for t := range seen {
		v.Terms = append(v.Terms, t)
	}
	sort.Strings(v.Terms)
	v.Vocabulary = make(map[string]int, len(v.Terms))
	for i, t := range v.Terms {
		v.Vocabulary[t] = i
	}

	m := &Matrix{Rows: make([]Vector, len(docs)), Cols: len(v.Terms)}
	for i, doc := range docs {
		m.Rows[i] = v.count(doc)
	}
	return m, nil
}

// Transform counts vocabulary terms in each message; unknown terms are dropped.
func (v *CountVectorizer) Transform(texts []string) (*Matrix, error) {
	if v.Vocabulary == nil {
		return nil, internalerr.ErrNotFitted
	}
	if v.analyzer == nil {
		return nil, fmt.Errorf("%w: count vectorizer has no analyzer", internalerr.ErrNotFitted)
	}
	m := &Matrix{Rows: make([]Vector, len(texts)), Cols: len(v.Terms)}
	for i, text := range texts {
		m.Rows[i] = v.count(v.tokens(text))
	}
	return m, nil
}

func (v *CountVectorizer) count(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, t := range tokens {
		if j, ok := v.Vocabulary[t]; ok {
			counts[j]++
		}
	}
	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for j := range counts {
		vec.Indices = append(vec.Indices, j)
	}
	sort.Ints(vec.Indices)
	for _, j := range vec.Indices {
		vec.Values = append(vec.Values, counts[j])
	}
	return vec
}
