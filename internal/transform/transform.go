// Package transform reweights raw term-by-context counts.
//
// A Transform is fitted once against the frozen count matrix; the resulting
// Weighting holds the aggregates (row sums, document frequencies, ...) and
// applies them both to the full matrix and to single columns projected later.
package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
)

// Transform computes corpus statistics from a frozen matrix.
type Transform interface {
	Name() string
	Fit(m *vectorizer.Matrix) (Weighting, error)
}

// Weighting applies fitted statistics. Apply returns a matrix of the same
// shape; ApplyColumn reweights a new column over the same row space using the
// statistics frozen at Fit time.
type Weighting interface {
	Name() string
	Apply(ctx context.Context, m *vectorizer.Matrix) (*vectorizer.Matrix, error)
	ApplyColumn(col vectorizer.SparseVector) vectorizer.SparseVector
}

type entry struct {
	transform Transform
	restore   func() Weighting
}

var registry = make(map[string]entry)

// Register makes a transform available by name. restore returns an empty
// Weighting that the persisted state is decoded into.
func Register(name string, t Transform, restore func() Weighting) {
	registry[name] = entry{transform: t, restore: restore}
}

// Get returns the transform registered under name.
func Get(name string) (Transform, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("transform %s not registered", name)
	}
	return e.transform, nil
}

// Names returns the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Restore rebuilds a fitted Weighting from its JSON state.
func Restore(name string, state json.RawMessage) (Weighting, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("transform %s not registered", name)
	}
	w := e.restore()
	if len(state) > 0 {
		if err := json.Unmarshal(state, w); err != nil {
			return nil, fmt.Errorf("restore transform %s: %w", name, err)
		}
	}
	return w, nil
}

func init() {
	Register(identityName, Identity{}, func() Weighting { return &Identity{} })
	Register(tfidfName, TFIDF{}, func() Weighting { return &TFIDFWeighting{} })
	Register(logEntropyName, LogEntropy{}, func() Weighting { return &LogEntropyWeighting{} })
	Register(ppmiName, PPMI{}, func() Weighting { return &PPMIWeighting{} })
	Register(rowNormName, RowNormalize{}, func() Weighting { return &RowNormWeighting{} })
}

// cellFunc computes the new value of cell (row, col) from its raw count.
type cellFunc func(row, col int, v float64) float64

// applyCells maps every stored cell of m through fn in row-parallel.
// Non-finite results are stored as 0.
func applyCells(ctx context.Context, m *vectorizer.Matrix, fn cellFunc) (*vectorizer.Matrix, error) {
	return m.MapRows(ctx, 0, func(i int, r vectorizer.SparseVector) vectorizer.SparseVector {
		return r.Map(func(j int, v float64) float64 {
			return finite(fn(i, j, v))
		})
	})
}

// applyColumn maps the stored cells of a column vector, where the stored
// index is the row.
func applyColumn(col vectorizer.SparseVector, fn func(row int, v float64) float64) vectorizer.SparseVector {
	return col.Map(func(i int, v float64) float64 {
		return finite(fn(i, v))
	})
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// at returns xs[i], or 0 when i is outside xs.
func at(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return 0
	}
	return xs[i]
}
