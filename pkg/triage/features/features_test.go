package features

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

type fieldsAnalyzer struct{}

func (fieldsAnalyzer) Tokenize(text string) []string { return strings.Fields(strings.ToLower(text)) }

type prefixDetector struct{}

func (prefixDetector) StartsWithVerb(text string) bool {
	return strings.HasPrefix(strings.ToLower(text), "send") || strings.HasPrefix(strings.ToLower(text), "need")
}

func TestVectorAt(t *testing.T) {
	v := Vector{Indices: []int{1, 4, 7}, Values: []float64{0.5, 2, 3}}
	assert.Equal(t, 0.5, v.At(1))
	assert.Equal(t, 2.0, v.At(4))
	assert.Equal(t, 0.0, v.At(0))
	assert.Equal(t, 0.0, v.At(5))
	assert.Equal(t, 0.0, v.At(9))
}

func TestHStack(t *testing.T) {
	a := &Matrix{Cols: 2, Rows: []Vector{
		{Indices: []int{0}, Values: []float64{1}},
		{Indices: []int{1}, Values: []float64{2}},
	}}
	b := &Matrix{Cols: 1, Rows: []Vector{
		{},
		{Indices: []int{0}, Values: []float64{1}},
	}}

	m := HStack(a, b)
	assert.Equal(t, 3, m.Cols)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 2, 1}}, m.Dense())
}

func TestCountVectorizer(t *testing.T) {
	v := NewCountVectorizer(fieldsAnalyzer{}, nil)

	m, err := v.FitTransform([]string{"water water food", "food shelter"})
	require.NoError(t, err)

	assert.Equal(t, []string{"food", "shelter", "water"}, v.Terms)
	assert.Equal(t, [][]float64{{1, 0, 2}, {1, 1, 0}}, m.Dense())

	out, err := v.Transform([]string{"unknown water"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 1}}, out.Dense())
}

func TestCountVectorizerStopWords(t *testing.T) {
	v := NewCountVectorizer(fieldsAnalyzer{}, []string{"The"})

	_, err := v.FitTransform([]string{"the water", "the food"})
	require.NoError(t, err)
	assert.Equal(t, []string{"food", "water"}, v.Terms)
}

func TestCountVectorizerEmptyVocabulary(t *testing.T) {
	v := NewCountVectorizer(fieldsAnalyzer{}, []string{"the"})

	_, err := v.FitTransform([]string{"the", ""})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestCountVectorizerNotFitted(t *testing.T) {
	v := NewCountVectorizer(fieldsAnalyzer{}, nil)

	_, err := v.Transform([]string{"water"})
	assert.ErrorIs(t, err, internalerr.ErrNotFitted)
}

func TestTfidfSmoothIDFAndNorm(t *testing.T) {
	counts := &Matrix{Cols: 2, Rows: []Vector{
		{Indices: []int{0, 1}, Values: []float64{1, 1}},
		{Indices: []int{0}, Values: []float64{3}},
	}}

	tf := &TfidfTransformer{}
	tf.Fit(counts)

	// n=2: term 0 in both docs, term 1 in one.
	assert.InDelta(t, 1.0, tf.IDF[0], 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0)+1, tf.IDF[1], 1e-12)

	out, err := tf.Transform(counts)
	require.NoError(t, err)
	for _, row := range out.Rows {
		var norm float64
		for _, v := range row.Values {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, 1e-12)
	}
	assert.Greater(t, out.Rows[0].At(1), out.Rows[0].At(0), "rarer term weighs more")
}

func TestStartingVerbFeature(t *testing.T) {
	f := NewStartingVerbFeature(prefixDetector{})
	require.NoError(t, f.Fit(nil))

	m, err := f.Transform([]string{"Send water", "Water please", "need food"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {0}, {1}}, m.Dense())
}

func TestStartingVerbFeatureUnbound(t *testing.T) {
	f := &StartingVerbFeature{Name: "starting_verb"}

	_, err := f.Transform([]string{"Send water"})
	assert.ErrorIs(t, err, internalerr.ErrNotFitted)
}

func TestUnionColumnsOrder(t *testing.T) {
	u := NewUnion(fieldsAnalyzer{}, prefixDetector{}, nil)

	train := []string{"send water", "flood water"}
	m, err := u.FitTransform(train)
	require.NoError(t, err)

	// vocabulary: flood, send, water; then the verb flag.
	assert.Equal(t, 4, m.Cols)
	assert.Equal(t, 1.0, m.Rows[0].At(3))
	assert.Equal(t, 0.0, m.Rows[1].At(3))

	again, err := u.Transform(train)
	require.NoError(t, err)
	assert.Equal(t, m.Dense(), again.Dense())
}
