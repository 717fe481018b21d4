// Package factor reduces a term-by-context matrix to a low-rank word space.
//
// The canonical Factorizer is truncated SVD. A Result carries the word
// vectors, optional context vectors, and a Basis that projects new columns
// into the same space.
package factor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"gonum.org/v1/gonum/mat"
)

// Factorizer reduces a matrix to rank k.
type Factorizer interface {
	Name() string
	Factor(ctx context.Context, m *vectorizer.Matrix, k int) (*Result, error)
}

// Basis maps a new column over the row space into the reduced space.
type Basis interface {
	Name() string
	K() int
	Project(col vectorizer.SparseVector) ([]float64, error)
}

// Result holds the output of a factorization.
type Result struct {
	// Words has one row per matrix row.
	Words *mat.Dense
	// Contexts has one row per matrix column. May be nil.
	Contexts *mat.Dense
	Basis    Basis
}

type entry struct {
	factorizer Factorizer
	restore    func() Basis
}

var registry = make(map[string]entry)

// Register makes a factorizer available by name. restore returns an empty
// Basis that persisted state is decoded into.
func Register(name string, f Factorizer, restore func() Basis) {
	registry[name] = entry{factorizer: f, restore: restore}
}

// Get returns the factorizer registered under name.
func Get(name string) (Factorizer, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("factorization %s not registered", name)
	}
	return e.factorizer, nil
}

// Names returns the registered factorizer names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Restore rebuilds a Basis from its JSON state.
func Restore(name string, state json.RawMessage) (Basis, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("factorization %s not registered", name)
	}
	b := e.restore()
	if len(state) > 0 {
		if err := json.Unmarshal(state, b); err != nil {
			return nil, fmt.Errorf("restore factorization %s: %w", name, err)
		}
	}
	return b, nil
}

func init() {
	Register(svdName, SVD{Scaled: true}, func() Basis { return &SVDBasis{} })
	Register(svdUnscaledName, SVD{}, func() Basis { return &SVDBasis{} })
	Register(noneName, None{}, func() Basis { return &NoBasis{} })
}
