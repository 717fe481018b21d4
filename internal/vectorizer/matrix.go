package vectorizer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Matrix is an immutable row-sparse term-by-context matrix.
// Values returned from a Matrix must not be modified by callers.
type Matrix struct {
	rows []SparseVector
	cols int
}

// NewMatrix builds a matrix from rows. Each row's Dim is forced to cols and
// rows are cloned so the matrix owns its storage.
func NewMatrix(rows []SparseVector, cols int) (*Matrix, error) {
	owned := make([]SparseVector, len(rows))
	for i, r := range rows {
		for _, idx := range r.Indices {
			if idx < 0 || idx >= cols {
				return nil, fmt.Errorf("vectorizer: row %d column %d out of range [0, %d)", i, idx, cols)
			}
		}
		owned[i] = r.Clone()
		owned[i].Dim = cols
	}
	return &Matrix{rows: owned, cols: cols}, nil
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) {
	return len(m.rows), m.cols
}

// Row returns row i. The returned vector shares storage with the matrix.
func (m *Matrix) Row(i int) SparseVector {
	return m.rows[i]
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i].Get(j)
}

// Nnz returns the number of stored cells.
func (m *Matrix) Nnz() int {
	n := 0
	for _, r := range m.rows {
		n += r.Nnz()
	}
	return n
}

// RowSums returns the sum of every row.
func (m *Matrix) RowSums() []float64 {
	out := make([]float64, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.Sum()
	}
	return out
}

// ColSums returns the sum of every column.
func (m *Matrix) ColSums() []float64 {
	out := make([]float64, m.cols)
	for _, r := range m.rows {
		for k, idx := range r.Indices {
			out[idx] += r.Values[k]
		}
	}
	return out
}

// Total returns the sum of all cells.
func (m *Matrix) Total() float64 {
	var total float64
	for _, r := range m.rows {
		total += r.Sum()
	}
	return total
}

// RowNnz returns the number of non-zero cells per row. In document context
// mode this is each term's document frequency.
func (m *Matrix) RowNnz() []int {
	out := make([]int, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.Nnz()
	}
	return out
}

// ColNnz returns the number of non-zero cells per column.
func (m *Matrix) ColNnz() []int {
	out := make([]int, m.cols)
	for _, r := range m.rows {
		for _, idx := range r.Indices {
			out[idx]++
		}
	}
	return out
}

// Column returns a copy of column j as a sparse vector over the row space.
func (m *Matrix) Column(j int) SparseVector {
	col := NewSparseVector(len(m.rows))
	for i, r := range m.rows {
		if v := r.Get(j); v != 0 {
			col.Indices = append(col.Indices, i)
			col.Values = append(col.Values, v)
		}
	}
	return col
}

// Dense converts the matrix to a gonum dense matrix.
func (m *Matrix) Dense() *mat.Dense {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(rows, cols, nil)
	for i, r := range m.rows {
		for k, idx := range r.Indices {
			d.Set(i, idx, r.Values[k])
		}
	}
	return d
}

// Equal reports whether both matrices have the same shape and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if len(m.rows) != len(o.rows) || m.cols != o.cols {
		return false
	}
	for i := range m.rows {
		a, b := m.rows[i], o.rows[i]
		if len(a.Indices) != len(b.Indices) {
			return false
		}
		for k := range a.Indices {
			if a.Indices[k] != b.Indices[k] || a.Values[k] != b.Values[k] {
				return false
			}
		}
	}
	return true
}

// MapRows returns a new matrix of the same shape where row i is fn(i, row).
// Rows are processed by up to workers goroutines (GOMAXPROCS when workers < 1).
// The context is checked between rows.
func (m *Matrix) MapRows(ctx context.Context, workers int, fn func(i int, row SparseVector) SparseVector) (*Matrix, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]SparseVector, len(m.rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	const batch = 256
	for start := 0; start < len(m.rows); start += batch {
		end := min(start+batch, len(m.rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				r := fn(i, m.rows[i])
				r.Dim = m.cols
				out[i] = r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Matrix{rows: out, cols: m.cols}, nil
}
