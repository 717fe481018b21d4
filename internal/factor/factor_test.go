package factor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func matrixOf(t *testing.T, data [][]float64) *vectorizer.Matrix {
	t.Helper()
	cols := len(data[0])
	rows := make([]vectorizer.SparseVector, len(data))
	for i, r := range data {
		rows[i] = vectorizer.NewSparseVector(cols)
		for j, v := range r {
			rows[i].Set(j, v)
		}
	}
	m, err := vectorizer.NewMatrix(rows, cols)
	require.NoError(t, err)
	return m
}

var sample = [][]float64{
	{1, 0, 1, 0},
	{0, 1, 1, 0},
	{1, 1, 0, 2},
	{0, 0, 1, 1},
	{2, 0, 0, 1},
}

func TestSVDRankBound(t *testing.T) {
	m := matrixOf(t, sample)
	for _, k := range []int{0, -1, 5, 6} {
		_, err := SVD{Scaled: true}.Factor(context.Background(), m, k)
		assert.ErrorIs(t, err, ErrInvalidRank, "k=%d", k)
	}
	res, err := SVD{Scaled: true}.Factor(context.Background(), m, 4)
	require.NoError(t, err)
	r, c := res.Words.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 4, c)
}

func TestSVDFullRankReconstructs(t *testing.T) {
	m := matrixOf(t, sample)
	res, err := SVD{}.Factor(context.Background(), m, 4)
	require.NoError(t, err)

	b := res.Basis.(*SVDBasis)
	sigma := mat.NewDiagDense(4, b.Sigma)
	var us, usvt mat.Dense
	us.Mul(res.Words, sigma)
	usvt.Mul(&us, res.Contexts.T())
	assert.True(t, mat.EqualApprox(&usvt, m.Dense(), 1e-9))

	for i := 1; i < len(b.Sigma); i++ {
		assert.GreaterOrEqual(t, b.Sigma[i-1], b.Sigma[i], "singular values must be descending")
	}
}

func TestSVDProjectionMatchesContexts(t *testing.T) {
	m := matrixOf(t, sample)
	for _, f := range []SVD{{Scaled: true}, {}} {
		res, err := f.Factor(context.Background(), m, 2)
		require.NoError(t, err)
		for j := range 4 {
			got, err := res.Basis.Project(m.Column(j))
			require.NoError(t, err)
			require.Len(t, got, 2)
			want := mat.Row(nil, j, res.Contexts)
			assert.InDeltaSlice(t, want, got, 1e-9, "%s column %d", f.Name(), j)
		}
	}
}

func TestSVDDeterministic(t *testing.T) {
	m := matrixOf(t, sample)
	a, err := SVD{Scaled: true}.Factor(context.Background(), m, 2)
	require.NoError(t, err)
	b, err := SVD{Scaled: true}.Factor(context.Background(), m, 2)
	require.NoError(t, err)
	assert.True(t, mat.Equal(a.Words, b.Words))

	col := m.Column(1)
	p1, _ := a.Basis.Project(col)
	p2, _ := a.Basis.Project(col)
	assert.Equal(t, p1, p2)
}

func TestSVDSignConvention(t *testing.T) {
	m := matrixOf(t, sample)
	res, err := SVD{}.Factor(context.Background(), m, 3)
	require.NoError(t, err)
	rows, k := res.Contexts.Dims()
	for c := range k {
		best, bestAbs := 0.0, -1.0
		for r := range rows {
			v := res.Contexts.At(r, c)
			if abs := max(v, -v); abs > bestAbs {
				best, bestAbs = v, abs
			}
		}
		assert.Positive(t, best, "column %d", c)
	}
}

func TestSVDCancelled(t *testing.T) {
	m := matrixOf(t, sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SVD{}.Factor(ctx, m, 2)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestSVDBasisRestore(t *testing.T) {
	m := matrixOf(t, sample)
	res, err := SVD{Scaled: true}.Factor(context.Background(), m, 2)
	require.NoError(t, err)
	data, err := json.Marshal(res.Basis)
	require.NoError(t, err)

	restored, err := Restore(svdName, data)
	require.NoError(t, err)
	want, _ := res.Basis.Project(m.Column(0))
	got, err := restored.Project(m.Column(0))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = restored.Project(vectorizer.NewSparseVector(3))
	assert.Error(t, err, "dimension mismatch")
}

func TestNone(t *testing.T) {
	m := matrixOf(t, sample)
	res, err := None{}.Factor(context.Background(), m, 2)
	require.NoError(t, err)
	r, c := res.Words.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 2.0, res.Words.At(2, 3))
	assert.Equal(t, 2.0, res.Contexts.At(3, 2))

	_, err = res.Basis.Project(m.Column(0))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"none", "svd", "svd-unscaled"}, Names())
	f, err := Get("svd")
	require.NoError(t, err)
	assert.Equal(t, "svd", f.Name())
	_, err = Get("nmf")
	assert.Error(t, err)
}
