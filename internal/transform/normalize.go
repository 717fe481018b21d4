package transform

import (
	"context"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"gonum.org/v1/gonum/floats"
)

const rowNormName = "row-normalize"

// RowNormalize divides every row by its L2 norm. Empty rows stay empty.
type RowNormalize struct{}

// Name implements Transform.
func (RowNormalize) Name() string { return rowNormName }

// Fit records each row's L2 norm.
func (RowNormalize) Fit(m *vectorizer.Matrix) (Weighting, error) {
	rows, _ := m.Dims()
	w := &RowNormWeighting{Norms: make([]float64, rows)}
	for i := range rows {
		w.Norms[i] = m.Row(i).L2Norm()
	}
	return w, nil
}

// RowNormWeighting holds the fitted row norms.
type RowNormWeighting struct {
	Norms []float64 `json:"norms"`
}

// Name implements Weighting.
func (w *RowNormWeighting) Name() string { return rowNormName }

func (w *RowNormWeighting) scale(i int, v float64) float64 {
	n := at(w.Norms, i)
	if n == 0 {
		return 0
	}
	return v / n
}

// Apply implements Weighting.
func (w *RowNormWeighting) Apply(ctx context.Context, m *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	return applyCells(ctx, m, func(i, _ int, v float64) float64 { return w.scale(i, v) })
}

// ApplyColumn implements Weighting.
func (w *RowNormWeighting) ApplyColumn(col vectorizer.SparseVector) vectorizer.SparseVector {
	return applyColumn(col, w.scale)
}

// Rescale maps values linearly so the minimum becomes lo and the maximum
// becomes hi. When all values are equal every output is lo.
func Rescale(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	minV, maxV := floats.Min(values), floats.Max(values)
	span := maxV - minV
	for i, v := range values {
		if span == 0 {
			out[i] = lo
			continue
		}
		out[i] = lo + (v-minV)*(hi-lo)/span
	}
	return out
}
