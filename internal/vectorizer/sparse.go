// Package vectorizer accumulates term-by-context count matrices from token streams.
package vectorizer

import (
	"math"
	"sort"
)

// SparseVector represents a sparse float64 vector.
// Indices are kept in ascending order and every stored value is non-zero.
type SparseVector struct {
	Indices []int     `json:"indices,omitempty"`
	Values  []float64 `json:"values,omitempty"`
	Dim     int       `json:"dim"`
}

// NewSparseVector creates a sparse vector with given dimension.
func NewSparseVector(dim int) SparseVector {
	return SparseVector{Dim: dim}
}

func (sv *SparseVector) search(idx int) (int, bool) {
	pos := sort.SearchInts(sv.Indices, idx)
	return pos, pos < len(sv.Indices) && sv.Indices[pos] == idx
}

// Get returns the value at idx, or 0 if nothing is stored there.
func (sv SparseVector) Get(idx int) float64 {
	if pos, ok := sv.search(idx); ok {
		return sv.Values[pos]
	}
	return 0
}

// Set adds or updates a value at the given index. Setting 0 removes the entry.
func (sv *SparseVector) Set(idx int, val float64) {
	pos, ok := sv.search(idx)
	switch {
	case ok && val == 0:
		sv.Indices = append(sv.Indices[:pos], sv.Indices[pos+1:]...)
		sv.Values = append(sv.Values[:pos], sv.Values[pos+1:]...)
	case ok:
		sv.Values[pos] = val
	case val == 0:
	default:
		sv.Indices = append(sv.Indices, 0)
		sv.Values = append(sv.Values, 0)
		copy(sv.Indices[pos+1:], sv.Indices[pos:])
		copy(sv.Values[pos+1:], sv.Values[pos:])
		sv.Indices[pos] = idx
		sv.Values[pos] = val
	}
}

// Add increments the value at idx by delta.
func (sv *SparseVector) Add(idx int, delta float64) {
	sv.Set(idx, sv.Get(idx)+delta)
}

// NonZero returns the stored indices in ascending order.
func (sv SparseVector) NonZero() []int {
	out := make([]int, len(sv.Indices))
	copy(out, sv.Indices)
	return out
}

// Len returns the declared dimension.
func (sv SparseVector) Len() int {
	return sv.Dim
}

// Dot computes the dot product with a dense vector.
func (sv SparseVector) Dot(dense []float64) float64 {
	var sum float64
	for i, idx := range sv.Indices {
		if idx < len(dense) {
			sum += sv.Values[i] * dense[idx]
		}
	}
	return sum
}

// ToDense converts to a dense float64 slice.
func (sv SparseVector) ToDense() []float64 {
	dense := make([]float64, sv.Dim)
	for i, idx := range sv.Indices {
		if idx < sv.Dim {
			dense[idx] = sv.Values[i]
		}
	}
	return dense
}

// Nnz returns the number of non-zero entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}

// Sum returns the sum of all stored values.
func (sv SparseVector) Sum() float64 {
	var sum float64
	for _, v := range sv.Values {
		sum += v
	}
	return sum
}

// Clone returns a deep copy.
func (sv SparseVector) Clone() SparseVector {
	out := SparseVector{Dim: sv.Dim}
	if len(sv.Indices) > 0 {
		out.Indices = append([]int(nil), sv.Indices...)
		out.Values = append([]float64(nil), sv.Values...)
	}
	return out
}

// Map returns a copy with fn applied to each stored entry. Entries mapped to
// zero are dropped.
func (sv SparseVector) Map(fn func(idx int, val float64) float64) SparseVector {
	out := SparseVector{
		Indices: make([]int, 0, len(sv.Indices)),
		Values:  make([]float64, 0, len(sv.Values)),
		Dim:     sv.Dim,
	}
	for i, idx := range sv.Indices {
		if v := fn(idx, sv.Values[i]); v != 0 {
			out.Indices = append(out.Indices, idx)
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// ConcatSparse concatenates multiple sparse vectors with offsets into a single vector.
func ConcatSparse(vectors []SparseVector) SparseVector {
	totalDim := 0
	totalNnz := 0
	for _, v := range vectors {
		totalDim += v.Dim
		totalNnz += v.Nnz()
	}
	result := SparseVector{
		Indices: make([]int, 0, totalNnz),
		Values:  make([]float64, 0, totalNnz),
		Dim:     totalDim,
	}
	offset := 0
	for _, v := range vectors {
		for i, idx := range v.Indices {
			result.Indices = append(result.Indices, idx+offset)
			result.Values = append(result.Values, v.Values[i])
		}
		offset += v.Dim
	}
	return result
}

// L2Norm returns the L2 norm of the sparse vector.
func (sv SparseVector) L2Norm() float64 {
	var sum float64
	for _, v := range sv.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Concatenation is a read-only view of two vectors laid end to end.
// Nothing is copied; index First.Len() is the first index of Second.
type Concatenation struct {
	First  SparseVector
	Second SparseVector
}

// Concat returns a view of a followed by b.
func Concat(a, b SparseVector) Concatenation {
	return Concatenation{First: a, Second: b}
}

// Len returns the combined dimension.
func (c Concatenation) Len() int {
	return c.First.Len() + c.Second.Len()
}

// Get returns the value at idx in the combined index space.
func (c Concatenation) Get(idx int) float64 {
	if idx < c.First.Len() {
		return c.First.Get(idx)
	}
	return c.Second.Get(idx - c.First.Len())
}

// NonZero returns the stored indices of both segments in ascending order.
func (c Concatenation) NonZero() []int {
	out := make([]int, 0, c.First.Nnz()+c.Second.Nnz())
	out = append(out, c.First.Indices...)
	for _, idx := range c.Second.Indices {
		out = append(out, idx+c.First.Len())
	}
	return out
}
