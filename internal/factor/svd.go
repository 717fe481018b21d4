package factor

import (
	"context"
	"fmt"
	"math"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	svdName         = "svd"
	svdUnscaledName = "svd-unscaled"
)

// SVD is a truncated singular value decomposition M ≈ U_k Σ_k V_kᵀ.
//
// With Scaled set, word vectors are U_k Σ_k, context vectors V_k Σ_k and a new
// column q projects to U_kᵀ q. Otherwise word vectors are U_k, context
// vectors V_k and q projects to Σ_k⁻¹ U_kᵀ q. In both cases projecting a
// training column reproduces its context vector.
//
// Singular vectors are sign-normalized so that the largest-magnitude
// component of each right singular vector is positive.
type SVD struct {
	Scaled bool
}

// Name implements Factorizer.
func (s SVD) Name() string {
	if s.Scaled {
		return svdName
	}
	return svdUnscaledName
}

type svdOutcome struct {
	svd mat.SVD
	ok  bool
}

// Factor implements Factorizer. The decomposition itself cannot be
// interrupted; when ctx is done first, Factor returns ErrCancelled and the
// result of the running decomposition is discarded.
func (s SVD) Factor(ctx context.Context, m *vectorizer.Matrix, k int) (*Result, error) {
	rows, cols := m.Dims()
	if k < 1 || k > min(rows, cols) {
		return nil, fmt.Errorf("%s: %w: k=%d, matrix is %dx%d", s.Name(), ErrInvalidRank, k, rows, cols)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", s.Name(), ErrCancelled, err)
	}

	a := m.Dense()
	done := make(chan *svdOutcome, 1)
	go func() {
		out := &svdOutcome{}
		out.ok = out.svd.Factorize(a, mat.SVDThin)
		done <- out
	}()

	var out *svdOutcome
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w: %v", s.Name(), ErrCancelled, ctx.Err())
	case out = <-done:
	}
	if !out.ok {
		return nil, fmt.Errorf("%s: %w: decomposition of %dx%d matrix did not converge", s.Name(), ErrNumericalFailure, rows, cols)
	}

	var uFull, vFull mat.Dense
	out.svd.UTo(&uFull)
	out.svd.VTo(&vFull)
	sigma := out.svd.Values(nil)[:k]
	if !allFinite(sigma) {
		return nil, fmt.Errorf("%s: %w: non-finite singular values", s.Name(), ErrNumericalFailure)
	}

	uk := mat.DenseCopyOf(uFull.Slice(0, rows, 0, k))
	vk := mat.DenseCopyOf(vFull.Slice(0, cols, 0, k))
	normalizeSigns(uk, vk)
	if !allFinite(uk.RawMatrix().Data) || !allFinite(vk.RawMatrix().Data) {
		return nil, fmt.Errorf("%s: %w: non-finite singular vectors", s.Name(), ErrNumericalFailure)
	}

	basis := &SVDBasis{
		Factorization: s.Name(),
		Rows:          rows,
		Rank:          k,
		U:             append([]float64(nil), uk.RawMatrix().Data...),
		Sigma:         append([]float64(nil), sigma...),
		Scaled:        s.Scaled,
	}

	if s.Scaled {
		scaleColumns(uk, sigma)
		scaleColumns(vk, sigma)
	}
	return &Result{Words: uk, Contexts: vk, Basis: basis}, nil
}

// normalizeSigns flips each singular vector pair so the largest-magnitude
// component of the right vector is positive (first index wins ties).
func normalizeSigns(u, v *mat.Dense) {
	vRows, k := v.Dims()
	uRows, _ := u.Dims()
	for c := range k {
		best, bestAbs := 0, -1.0
		for r := range vRows {
			if a := math.Abs(v.At(r, c)); a > bestAbs {
				best, bestAbs = r, a
			}
		}
		if v.At(best, c) >= 0 {
			continue
		}
		for r := range vRows {
			v.Set(r, c, -v.At(r, c))
		}
		for r := range uRows {
			u.Set(r, c, -u.At(r, c))
		}
	}
}

func scaleColumns(d *mat.Dense, scale []float64) {
	rows, cols := d.Dims()
	for r := range rows {
		for c := range cols {
			d.Set(r, c, d.At(r, c)*scale[c])
		}
	}
}

func allFinite(xs []float64) bool {
	return !floats.HasNaN(xs) && !hasInf(xs)
}

func hasInf(xs []float64) bool {
	for _, x := range xs {
		if math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// SVDBasis retains U_k and Σ_k for projection.
type SVDBasis struct {
	Factorization string    `json:"factorization"`
	Rows          int       `json:"rows"`
	Rank          int       `json:"k"`
	U             []float64 `json:"u"` // rows×k, row-major
	Sigma         []float64 `json:"sigma"`
	Scaled        bool      `json:"scaled"`
}

// Name implements Basis.
func (b *SVDBasis) Name() string { return b.Factorization }

// K implements Basis.
func (b *SVDBasis) K() int { return b.Rank }

// Project maps a column over the row space into k dimensions.
func (b *SVDBasis) Project(col vectorizer.SparseVector) ([]float64, error) {
	if col.Len() != b.Rows {
		return nil, fmt.Errorf("project: column has %d rows, basis has %d", col.Len(), b.Rows)
	}
	if len(b.U) != b.Rows*b.Rank || len(b.Sigma) != b.Rank {
		return nil, fmt.Errorf("project: %w: basis is incomplete", ErrNumericalFailure)
	}
	out := make([]float64, b.Rank)
	if col.Nnz() == 0 {
		return out, nil
	}
	u := mat.NewDense(b.Rows, b.Rank, b.U)
	q := mat.NewVecDense(b.Rows, col.ToDense())
	var proj mat.VecDense
	proj.MulVec(u.T(), q)
	for j := range out {
		v := proj.AtVec(j)
		if !b.Scaled {
			if b.Sigma[j] == 0 {
				v = 0
			} else {
				v /= b.Sigma[j]
			}
		}
		out[j] = v
	}
	return out, nil
}
