package factor

import (
	"context"
	"fmt"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"gonum.org/v1/gonum/mat"
)

const noneName = "none"

// None keeps the full transformed matrix: word vectors are its rows and
// context vectors its columns. The requested rank is ignored. Projection is
// not supported.
type None struct{}

// Name implements Factorizer.
func (None) Name() string { return noneName }

// Factor implements Factorizer.
func (None) Factor(ctx context.Context, m *vectorizer.Matrix, k int) (*Result, error) {
	rows, cols := m.Dims()
	if k < 0 {
		return nil, fmt.Errorf("%s: %w: k=%d", noneName, ErrInvalidRank, k)
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%s: %w: matrix is %dx%d", noneName, ErrInvalidRank, rows, cols)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", noneName, ErrCancelled, err)
	}
	words := m.Dense()
	contexts := mat.DenseCopyOf(words.T())
	return &Result{Words: words, Contexts: contexts, Basis: &NoBasis{Dim: cols}}, nil
}

// NoBasis is returned by factorizations that cannot project.
type NoBasis struct {
	Dim int `json:"dim"`
}

// Name implements Basis.
func (*NoBasis) Name() string { return noneName }

// K implements Basis.
func (b *NoBasis) K() int { return b.Dim }

// Project always fails with ErrUnsupported.
func (*NoBasis) Project(vectorizer.SparseVector) ([]float64, error) {
	return nil, fmt.Errorf("project: %w: %s factorization keeps no basis", ErrUnsupported, noneName)
}
