package transform

import (
	"context"
	"math"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
)

const logEntropyName = "log-entropy"

// LogEntropy applies the log-entropy weighting used by LSA:
//
//	w(i, j) = log(1 + c(i, j)) * g(i)
//	g(i)    = 1 + sum_j p(i, j) log p(i, j) / log n,  p(i, j) = c(i, j) / rowSum(i)
//
// Terms spread evenly across all n contexts get a global weight near 0.
// Empty rows get weight 0; with a single context every row gets weight 1.
type LogEntropy struct{}

// Name implements Transform.
func (LogEntropy) Name() string { return logEntropyName }

// Fit computes the global entropy weight of each row.
func (LogEntropy) Fit(m *vectorizer.Matrix) (Weighting, error) {
	rows, cols := m.Dims()
	sums := m.RowSums()
	w := &LogEntropyWeighting{Global: make([]float64, rows)}

	logN := math.Log(float64(cols))
	for i := range rows {
		if sums[i] == 0 {
			continue
		}
		if cols <= 1 {
			w.Global[i] = 1
			continue
		}
		var entropy float64
		r := m.Row(i)
		for _, v := range r.Values {
			p := v / sums[i]
			if p > 0 {
				entropy += p * math.Log(p)
			}
		}
		g := finite(1 + entropy/logN)
		if math.Abs(g) < 1e-12 {
			g = 0
		}
		w.Global[i] = g
	}
	return w, nil
}

// LogEntropyWeighting holds the fitted global weight per term.
type LogEntropyWeighting struct {
	Global []float64 `json:"global"`
}

// Name implements Weighting.
func (w *LogEntropyWeighting) Name() string { return logEntropyName }

// Apply implements Weighting.
func (w *LogEntropyWeighting) Apply(ctx context.Context, m *vectorizer.Matrix) (*vectorizer.Matrix, error) {
	return applyCells(ctx, m, func(i, _ int, v float64) float64 {
		return math.Log1p(v) * at(w.Global, i)
	})
}

// ApplyColumn implements Weighting.
func (w *LogEntropyWeighting) ApplyColumn(col vectorizer.SparseVector) vectorizer.SparseVector {
	return applyColumn(col, func(i int, v float64) float64 {
		return math.Log1p(v) * at(w.Global, i)
	})
}
