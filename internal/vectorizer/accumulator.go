package vectorizer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrFrozen is returned when accumulating into an accumulator that was frozen.
var ErrFrozen = errors.New("vectorizer: accumulator is frozen")

// ContextMode selects what a matrix column stands for.
type ContextMode string

const (
	// DocumentContext uses one column per document.
	DocumentContext ContextMode = "document"
	// WindowContext uses one column per neighboring term within a symmetric window.
	WindowContext ContextMode = "window"
)

type row struct {
	mu    sync.Mutex
	cells map[int]float64
}

// Accumulator tallies term-by-context counts. It is safe for concurrent use:
// rows are locked independently, so workers touching different terms never
// contend and additions to the same cell are serialized.
type Accumulator struct {
	terms    *Basis
	contexts *Basis

	// mu is held for reading by every Accumulate call and for writing by
	// Freeze and by row growth.
	mu     sync.RWMutex
	rows   []*row
	frozen *Matrix
}

// NewAccumulator creates an accumulator that resolves ids through the given
// bases. Nil bases are replaced with empty ones.
func NewAccumulator(terms, contexts *Basis) *Accumulator {
	if terms == nil {
		terms = NewBasis()
	}
	if contexts == nil {
		contexts = NewBasis()
	}
	return &Accumulator{terms: terms, contexts: contexts}
}

// Terms returns the term basis.
func (a *Accumulator) Terms() *Basis { return a.terms }

// Contexts returns the context basis.
func (a *Accumulator) Contexts() *Basis { return a.contexts }

// Accumulate adds amount to the (term, context) cell, registering either
// token if unseen.
func (a *Accumulator) Accumulate(term, context string, amount float64) error {
	for {
		a.mu.RLock()
		if a.frozen != nil {
			a.mu.RUnlock()
			return ErrFrozen
		}
		r := a.terms.Add(term)
		c := a.contexts.Add(context)
		if r < 0 || c < 0 {
			a.mu.RUnlock()
			return ErrFrozen
		}
		ok := a.addLocked(r, c, amount)
		a.mu.RUnlock()
		if ok {
			return nil
		}
		a.grow(r + 1)
	}
}

// AccumulateIDs adds amount to cell (r, c) for ids already registered in the
// bases.
func (a *Accumulator) AccumulateIDs(r, c int, amount float64) error {
	if r < 0 || c < 0 {
		return fmt.Errorf("vectorizer: negative cell (%d, %d)", r, c)
	}
	for {
		a.mu.RLock()
		if a.frozen != nil {
			a.mu.RUnlock()
			return ErrFrozen
		}
		if r >= a.terms.Len() || c >= a.contexts.Len() {
			a.mu.RUnlock()
			return fmt.Errorf("vectorizer: cell (%d, %d) outside registered bases", r, c)
		}
		ok := a.addLocked(r, c, amount)
		a.mu.RUnlock()
		if ok {
			return nil
		}
		a.grow(r + 1)
	}
}

// addLocked requires a.mu held for reading. It reports false when row r
// does not exist yet.
func (a *Accumulator) addLocked(r, c int, amount float64) bool {
	if r >= len(a.rows) {
		return false
	}
	if amount == 0 {
		return true
	}
	rw := a.rows[r]
	rw.mu.Lock()
	rw.cells[c] += amount
	if rw.cells[c] == 0 {
		delete(rw.cells, c)
	}
	rw.mu.Unlock()
	return true
}

func (a *Accumulator) grow(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.rows) < n {
		a.rows = append(a.rows, &row{cells: make(map[int]float64)})
	}
}

// Freeze stops accumulation and returns the snapshot. Both bases are frozen.
// Subsequent calls return the same snapshot.
func (a *Accumulator) Freeze() *Matrix {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen != nil {
		return a.frozen
	}
	a.terms.Freeze()
	a.contexts.Freeze()

	nRows, nCols := a.terms.Len(), a.contexts.Len()
	rows := make([]SparseVector, nRows)
	for i := range rows {
		rows[i] = NewSparseVector(nCols)
		if i >= len(a.rows) {
			continue
		}
		cells := a.rows[i].cells
		idx := make([]int, 0, len(cells))
		for c := range cells {
			idx = append(idx, c)
		}
		sort.Ints(idx)
		rows[i].Indices = idx
		rows[i].Values = make([]float64, len(idx))
		for k, c := range idx {
			rows[i].Values[k] = cells[c]
		}
	}
	a.frozen = &Matrix{rows: rows, cols: nCols}
	a.rows = nil
	return a.frozen
}
