package features

import (
	"math"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// TfidfTransformer reweights count rows by smoothed inverse document
// frequency and L2-normalizes each row:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
type TfidfTransformer struct {
	IDF []float64
}

// Fit computes document frequencies from a count matrix.
func (t *TfidfTransformer) Fit(counts *Matrix) {
	df := make([]float64, counts.Cols)
	for _, row := range counts.Rows {
		for _, j := range row.Indices {
			df[j]++
		}
	}
	n := float64(counts.NumRows())
	t.IDF = make([]float64, counts.Cols)
	for j := range df {
		t.IDF[j] = math.Log((1+n)/(1+df[j])) + 1
	}
}

// Transform applies the fitted weights to a count matrix.
func (t *TfidfTransformer) Transform(counts *Matrix) (*Matrix, error) {
	if t.IDF == nil {
		return nil, internalerr.ErrNotFitted
	}
	out := &Matrix{Rows: make([]Vector, counts.NumRows()), Cols: counts.Cols}
	for i, row := range counts.Rows {
		vec := Vector{
			Indices: append([]int(nil), row.Indices...),
			Values:  make([]float64, len(row.Values)),
		}
		var norm float64
		for k, j := range row.Indices {
			w := row.Values[k] * t.IDF[j]
			vec.Values[k] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec.Values {
				vec.Values[k] /= norm
			}
		}
		out.Rows[i] = vec
	}
	return out, nil
}

// TextPipeline chains count vectorization and TF-IDF weighting.
type TextPipeline struct {
	Vect  *CountVectorizer
	Tfidf *TfidfTransformer
}

// NewTextPipeline creates the text sub-pipeline.
func NewTextPipeline(analyzer Analyzer, stopWords []string) *TextPipeline {
	return &TextPipeline{
		Vect:  NewCountVectorizer(analyzer, stopWords),
		Tfidf: &TfidfTransformer{},
	}
}

// Fit implements Transformer.
func (p *TextPipeline) Fit(texts []string) error {
	_, err := p.FitTransform(texts)
	return err
}

// FitTransform fits both stages and returns the weighted training matrix.
func (p *TextPipeline) FitTransform(texts []string) (*Matrix, error) {
	counts, err := p.Vect.FitTransform(texts)
	if err != nil {
		return nil, err
	}
	p.Tfidf.Fit(counts)
	return p.Tfidf.Transform(counts)
}

// Transform implements Transformer.
func (p *TextPipeline) Transform(texts []string) (*Matrix, error) {
	counts, err := p.Vect.Transform(texts)
	if err != nil {
		return nil, err
	}
	return p.Tfidf.Transform(counts)
}
