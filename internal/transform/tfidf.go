package transform

import (
	"context"
	"math"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
)

const (
	identityName = "identity"
	tfidfName    = "tfidf"
)

// Identity leaves counts unchanged.
type Identity struct{}

// Name implements Transform and Weighting.
func (Identity) Name() string { return identityName }

// Fit implements Transform.
func (Identity) Fit(*vectorizer.Matrix) (Weighting, error) { return Identity{}, nil }

// Apply returns m itself; matrices are immutable so no copy is needed.
func (Identity) Apply(_ context.Context, m *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	return m, nil
}

// ApplyColumn returns a copy of col.
func (Identity) ApplyColumn(col vectorizer.SparseVector) vectorizer.SparseVector {
	return col.Clone()
}

// TFIDF weights counts by smoothed inverse document frequency:
// idf = log((1 + n) / (1 + df)) + 1, where n is the number of contexts and
// df the number of contexts a term occurs in.
type TFIDF struct{}

// Name implements Transform.
func (TFIDF) Name() string { return tfidfName }

// Fit computes IDF values from the matrix.
func (TFIDF) Fit(m *vectorizer.Matrix) (Weighting, error) {
	rows, cols := m.Dims()
	nDocs := float64(cols)
	df := m.RowNnz()

	w := &TFIDFWeighting{IDF: make([]float64, rows)}
	for i := range rows {
		w.IDF[i] = math.Log((1+nDocs)/(1+float64(df[i]))) + 1
	}
	return w, nil
}

// TFIDFWeighting holds the fitted IDF per term.
type TFIDFWeighting struct {
	IDF []float64 `json:"idf"`
}

// Name implements Weighting.
func (w *TFIDFWeighting) Name() string { return tfidfName }

// Apply multiplies every cell by its term's IDF.
func (w *TFIDFWeighting) Apply(ctx context.Context, m *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	return applyCells(ctx, m, func(i, _ int, v float64) float64 {
		return v * at(w.IDF, i)
	})
}

// ApplyColumn multiplies each term count by the term's IDF.
func (w *TFIDFWeighting) ApplyColumn(col vectorizer.SparseVector) vectorizer.SparseVector {
	return applyColumn(col, func(i int, v float64) float64 {
		return v * at(w.IDF, i)
	})
}
