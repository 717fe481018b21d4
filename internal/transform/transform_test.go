package transform

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
)

// testMatrix returns
//
//	[2 0 1]
//	[1 1 1]
//	[0 0 0]
func testMatrix(t *testing.T) *vectorizer.Matrix {
	t.Helper()
	r0 := vectorizer.NewSparseVector(3)
	r0.Set(0, 2)
	r0.Set(2, 1)
	r1 := vectorizer.NewSparseVector(3)
	r1.Set(0, 1)
	r1.Set(1, 1)
	r1.Set(2, 1)
	m, err := vectorizer.NewMatrix([]vectorizer.SparseVector{r0, r1, vectorizer.NewSparseVector(3)}, 3)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func fitApply(t *testing.T, name string, m *vectorizer.Matrix) (Weighting, *vectorizer.Matrix) {
	t.Helper()
	tr, err := Get(name)
	if err != nil {
		t.Fatal(err)
	}
	w, err := tr.Fit(m)
	if err != nil {
		t.Fatal(err)
	}
	out, err := w.Apply(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	return w, out
}

func TestIdentity(t *testing.T) {
	m := testMatrix(t)
	_, out := fitApply(t, "identity", m)
	if !out.Equal(m) {
		t.Error("identity transform changed the matrix")
	}
}

func TestSameShapeAndFinite(t *testing.T) {
	m := testMatrix(t)
	for _, name := range Names() {
		_, out := fitApply(t, name, m)
		r, c := out.Dims()
		if r != 3 || c != 3 {
			t.Errorf("%s: Dims = (%d, %d), want (3, 3)", name, r, c)
		}
		for i := range r {
			for j := range c {
				if v := out.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("%s: cell (%d, %d) = %v", name, i, j, v)
				}
			}
		}
		if out.Row(2).Nnz() != 0 {
			t.Errorf("%s: empty row must stay empty", name)
		}
	}
}

func TestTFIDF(t *testing.T) {
	m := testMatrix(t)
	w, out := fitApply(t, "tfidf", m)
	idf0 := math.Log(4.0/3.0) + 1 // df = 2 of 3 contexts
	idf1 := math.Log(4.0/4.0) + 1 // df = 3
	if got := out.At(0, 0); math.Abs(got-2*idf0) > 1e-12 {
		t.Errorf("At(0, 0) = %v, want %v", got, 2*idf0)
	}
	if got := out.At(1, 1); math.Abs(got-idf1) > 1e-12 {
		t.Errorf("At(1, 1) = %v, want %v", got, idf1)
	}

	// A column equal to a training column gets the same weights.
	col := w.ApplyColumn(m.Column(0))
	if math.Abs(col.Get(0)-out.At(0, 0)) > 1e-12 || math.Abs(col.Get(1)-out.At(1, 0)) > 1e-12 {
		t.Errorf("ApplyColumn = %+v, want column 0 of transformed matrix", col)
	}
}

func TestLogEntropy(t *testing.T) {
	m := testMatrix(t)
	_, out := fitApply(t, "log-entropy", m)
	// Row 1 is spread evenly over all contexts, so its global weight is 0.
	if out.Row(1).Nnz() != 0 {
		t.Errorf("evenly spread row should weigh 0, got %+v", out.Row(1))
	}
	if out.At(0, 0) <= 0 {
		t.Errorf("At(0, 0) = %v, want > 0", out.At(0, 0))
	}
}

func TestLogEntropySingleContext(t *testing.T) {
	r := vectorizer.NewSparseVector(1)
	r.Set(0, 3)
	m, _ := vectorizer.NewMatrix([]vectorizer.SparseVector{r}, 1)
	_, out := fitApply(t, "log-entropy", m)
	if got, want := out.At(0, 0), math.Log1p(3); math.Abs(got-want) > 1e-12 {
		t.Errorf("At(0, 0) = %v, want %v", got, want)
	}
}

func TestPPMI(t *testing.T) {
	m := testMatrix(t)
	w, out := fitApply(t, "ppmi", m)
	// c=2, total=6, rowSum=3, colSum=3 -> log(12/9)
	if got, want := out.At(0, 0), math.Log(12.0/9.0); math.Abs(got-want) > 1e-12 {
		t.Errorf("At(0, 0) = %v, want %v", got, want)
	}
	for i := range 3 {
		for j := range 3 {
			if out.At(i, j) < 0 {
				t.Errorf("PPMI must be non-negative, (%d, %d) = %v", i, j, out.At(i, j))
			}
		}
	}
	empty := w.ApplyColumn(vectorizer.NewSparseVector(3))
	if empty.Nnz() != 0 {
		t.Error("empty column should stay empty")
	}
}

func TestRowNormalize(t *testing.T) {
	m := testMatrix(t)
	_, out := fitApply(t, "row-normalize", m)
	for i := range 2 {
		if n := out.Row(i).L2Norm(); math.Abs(n-1) > 1e-12 {
			t.Errorf("row %d norm = %v, want 1", i, n)
		}
	}
}

func TestRestore(t *testing.T) {
	m := testMatrix(t)
	for _, name := range Names() {
		w, out := fitApply(t, name, m)
		data, err := json.Marshal(w)
		if err != nil {
			t.Fatal(err)
		}
		restored, err := Restore(name, data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		again, err := restored.Apply(context.Background(), m)
		if err != nil {
			t.Fatal(err)
		}
		if !again.Equal(out) {
			t.Errorf("%s: restored weighting differs", name)
		}
	}
	if _, err := Restore("nope", nil); err == nil {
		t.Error("expected error for unknown transform")
	}
}

func TestRescale(t *testing.T) {
	got := Rescale([]float64{1, 2, 3}, 0, 10)
	want := []float64{0, 5, 10}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Rescale[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got := Rescale([]float64{4, 4}, 0, 10); got[0] != 0 || got[1] != 0 {
		t.Errorf("constant input = %v, want all 0", got)
	}
	if got := Rescale(nil, 0, 1); len(got) != 0 {
		t.Errorf("empty input = %v", got)
	}
}
