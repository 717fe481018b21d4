package transform

import (
	"context"
	"math"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
)

const ppmiName = "ppmi"

// PPMI replaces counts with positive pointwise mutual information:
//
//	max(0, log(c(i, j) * total / (rowSum(i) * colSum(j))))
//
// Cells whose row or column sums to zero become 0.
type PPMI struct{}

// Name implements Transform.
func (PPMI) Name() string { return ppmiName }

// Fit records the row sums, column sums and grand total.
func (PPMI) Fit(m *vectorizer.Matrix) (Weighting, error) {
	return &PPMIWeighting{
		RowSums: m.RowSums(),
		ColSums: m.ColSums(),
		Total:   m.Total(),
	}, nil
}

// PPMIWeighting holds the marginals of the fitted matrix.
type PPMIWeighting struct {
	RowSums []float64 `json:"row_sums"`
	ColSums []float64 `json:"col_sums"`
	Total   float64   `json:"total"`
}

// Name implements Weighting.
func (w *PPMIWeighting) Name() string { return ppmiName }

func (w *PPMIWeighting) cell(v, rowSum, colSum float64) float64 {
	denom := rowSum * colSum
	if v <= 0 || denom <= 0 || w.Total <= 0 {
		return 0
	}
	return math.Max(0, math.Log(v*w.Total/denom))
}

// Apply implements Weighting.
func (w *PPMIWeighting) Apply(ctx context.Context, m *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	return applyCells(ctx, m, func(i, j int, v float64) float64 {
		return w.cell(v, at(w.RowSums, i), at(w.ColSums, j))
	})
}

// ApplyColumn uses the frozen row sums and total with the column's own sum.
func (w *PPMIWeighting) ApplyColumn(col vectorizer.SparseVector) vectorizer.SparseVector {
	colSum := col.Sum()
	return applyColumn(col, func(i int, v float64) float64 {
		return w.cell(v, at(w.RowSums, i), colSum)
	})
}
