// Package space assembles semantic spaces.
//
// A Space is built once from a document stream: counts are accumulated into
// a term-by-context matrix, reweighted by a transform and reduced by a
// factorization. The built space answers word and document vector queries
// and projects unseen documents into the same coordinates.
package space

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"sync"

	"github.com/happyhackingspace/semspace/internal/corpus"
	"github.com/happyhackingspace/semspace/internal/factor"
	"github.com/happyhackingspace/semspace/internal/transform"
	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// State is the lifecycle stage of a Space.
type State int

const (
	Empty State = iota
	Accumulating
	Built
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Accumulating:
		return "accumulating"
	case Built:
		return "built"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Options configure how a Space is built.
type Options struct {
	Transform  transform.Transform
	Factorizer factor.Factorizer
	Rank       int

	Context vectorizer.ContextMode
	// Window is the co-occurrence radius for WindowContext; 0 means the
	// whole document.
	Window            int
	DistanceWeighting bool

	// Workers accumulating documents concurrently. GOMAXPROCS when < 1.
	Workers int
	// RetainDocuments keeps one vector per document (DocumentContext only).
	RetainDocuments bool

	Logger *slog.Logger
}

// Space is a word (and optionally document) vector store.
type Space struct {
	opts Options
	log  *slog.Logger

	mu        sync.RWMutex
	state     State
	terms     *vectorizer.Basis
	docIDs    []string
	contexts  int
	words     *mat.Dense
	docs      *mat.Dense
	weighting transform.Weighting
	basis     factor.Basis
}

// New returns an empty space. Missing options fall back to identity
// weighting, scaled SVD and document contexts.
func New(opts Options) *Space {
	if opts.Transform == nil {
		opts.Transform = transform.Identity{}
	}
	if opts.Factorizer == nil {
		opts.Factorizer = factor.SVD{Scaled: true}
	}
	if opts.Context == "" {
		opts.Context = vectorizer.DocumentContext
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Space{opts: opts, log: opts.Logger}
}

// State returns the current lifecycle stage.
func (s *Space) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Build consumes docs and builds the space. It may succeed only once; on
// any error the space is left Empty. Documents delivered with an error are
// skipped.
func (s *Space) Build(ctx context.Context, docs corpus.Source) (err error) {
	s.mu.Lock()
	if s.state != Empty {
		s.mu.Unlock()
		return fmt.Errorf("build: %w", ErrAlreadyBuilt)
	}
	s.state = Accumulating
	s.mu.Unlock()

	defer func() {
		if err != nil {
			s.mu.Lock()
			s.state = Empty
			s.mu.Unlock()
		}
	}()

	acc := vectorizer.NewAccumulator(nil, nil)
	docIDs, err := s.accumulate(ctx, acc, docs)
	if err != nil {
		return err
	}
	m := acc.Freeze()
	rows, cols := m.Dims()
	s.log.Debug("Matrix frozen", "terms", rows, "contexts", cols, "nnz", m.Nnz())

	weighting, err := s.opts.Transform.Fit(m)
	if err != nil {
		return fmt.Errorf("build: transform %s: %w", s.opts.Transform.Name(), err)
	}
	tm, err := weighting.Apply(ctx, m)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("build: transform %s: %w: %v", weighting.Name(), ErrCancelled, err)
		}
		return fmt.Errorf("build: transform %s: %w", weighting.Name(), err)
	}
	s.log.Debug("Transform applied", "transform", weighting.Name())

	res, err := s.opts.Factorizer.Factor(ctx, tm, s.opts.Rank)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	_, k := res.Words.Dims()
	s.log.Info("Space built", "terms", rows, "contexts", cols, "k", k,
		"transform", weighting.Name(), "factorization", s.opts.Factorizer.Name())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = acc.Terms()
	s.contexts = cols
	s.words = res.Words
	s.weighting = weighting
	s.basis = res.Basis
	if s.opts.Context == vectorizer.DocumentContext && s.opts.RetainDocuments {
		s.docs = res.Contexts
		s.docIDs = docIDs
	}
	s.state = Built
	return nil
}

// accumulate counts docs into acc. Term and context ids are registered by
// the producer in stream order, so they do not depend on worker scheduling.
func (s *Space) accumulate(ctx context.Context, acc *vectorizer.Accumulator, docs corpus.Source) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	var (
		docIDs  []string
		skipped int
	)
	for doc, derr := range docs {
		if gctx.Err() != nil {
			break
		}
		if derr != nil {
			s.log.Warn("Skipping document", "id", doc.ID, "error", derr)
			skipped++
			continue
		}
		for _, t := range doc.Tokens {
			acc.Terms().Add(t)
		}

		switch s.opts.Context {
		case vectorizer.WindowContext:
			for _, t := range doc.Tokens {
				acc.Contexts().Add(t)
			}
			g.Go(func() error {
				return acc.CountWindow(doc.Tokens, s.opts.Window, s.opts.DistanceWeighting)
			})
		default:
			name := strconv.Itoa(len(docIDs))
			acc.Contexts().Add(name)
			docIDs = append(docIDs, doc.ID)
			g.Go(func() error {
				return acc.CountDocument(name, doc.Tokens)
			})
		}
	}

	werr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build: accumulate: %w: %v", ErrCancelled, err)
	}
	if werr != nil {
		return nil, fmt.Errorf("build: accumulate: %w", werr)
	}
	s.log.Debug("Documents accumulated", "documents", len(docIDs), "skipped", skipped,
		"terms", acc.Terms().Len())
	return docIDs, nil
}

func (s *Space) built() error {
	if s.state != Built {
		return ErrNotBuilt
	}
	return nil
}

// VectorFor returns a copy of the word vector for term.
func (s *Space) VectorFor(term string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.built(); err != nil {
		return nil, fmt.Errorf("vector for %q: %w", term, err)
	}
	id, ok := s.terms.ID(term)
	if !ok {
		return nil, fmt.Errorf("vector for %q: %w", term, ErrNotFound)
	}
	return mat.Row(nil, id, s.words), nil
}

// DocumentVector returns a copy of the vector of the i-th document.
func (s *Space) DocumentVector(i int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.built(); err != nil {
		return nil, fmt.Errorf("document vector %d: %w", i, err)
	}
	if s.docs == nil {
		return nil, fmt.Errorf("document vector %d: %w: documents not retained", i, ErrNotFound)
	}
	if n, _ := s.docs.Dims(); i < 0 || i >= n {
		return nil, fmt.Errorf("document vector %d: %w: %d documents", i, ErrNotFound, n)
	}
	return mat.Row(nil, i, s.docs), nil
}

// DocumentID returns the corpus id of the i-th retained document.
func (s *Space) DocumentID(i int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.docIDs) {
		return "", fmt.Errorf("document id %d: %w", i, ErrNotFound)
	}
	return s.docIDs[i], nil
}

// Project maps a tokenized document into the space. Tokens unseen at build
// time are ignored.
func (s *Space) Project(tokens []string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.built(); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	col := vectorizer.Column(s.terms, tokens)
	col = s.weighting.ApplyColumn(col)
	return s.basis.Project(col)
}

// Neighbor is a ranked term.
type Neighbor struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Similar returns the n terms closest to term by cosine similarity,
// excluding term itself.
func (s *Space) Similar(term string, n int) ([]Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.built(); err != nil {
		return nil, fmt.Errorf("similar %q: %w", term, err)
	}
	id, ok := s.terms.ID(term)
	if !ok {
		return nil, fmt.Errorf("similar %q: %w", term, ErrNotFound)
	}
	return s.rank(mat.Row(nil, id, s.words), n, id), nil
}

// Nearest returns the n terms closest to vec by cosine similarity.
func (s *Space) Nearest(vec []float64, n int) ([]Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.built(); err != nil {
		return nil, fmt.Errorf("nearest: %w", err)
	}
	if _, k := s.words.Dims(); len(vec) != k {
		return nil, fmt.Errorf("nearest: vector has %d dimensions, space has %d", len(vec), k)
	}
	return s.rank(vec, n, -1), nil
}

func (s *Space) rank(vec []float64, n, skip int) []Neighbor {
	rows, k := s.words.Dims()
	out := make([]Neighbor, 0, rows)
	row := make([]float64, k)
	for i := range rows {
		if i == skip {
			continue
		}
		mat.Row(row, i, s.words)
		name, _ := s.terms.Token(i)
		out = append(out, Neighbor{Term: name, Score: Cosine(vec, row)})
	}
	SortNeighbors(out)
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// SortNeighbors orders by score descending, then term ascending.
func SortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, func(a, b Neighbor) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
}

// Cosine returns the cosine similarity of a and b, or 0 if either is zero.
func Cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// Terms returns the vocabulary in id order.
func (s *Space) Terms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.terms == nil {
		return nil
	}
	return s.terms.Tokens()
}

// Dims returns the number of word vectors and their dimension.
func (s *Space) Dims() (terms, k int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return 0, 0
	}
	return s.words.Dims()
}

// K returns the dimension of the space.
func (s *Space) K() int {
	_, k := s.Dims()
	return k
}

// NumContexts returns the number of matrix columns the space was built from.
func (s *Space) NumContexts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts
}

// NumDocuments returns the number of retained document vectors.
func (s *Space) NumDocuments() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.docs == nil {
		return 0
	}
	n, _ := s.docs.Dims()
	return n
}

// Transform returns the name of the fitted transform.
func (s *Space) Transform() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.weighting == nil {
		return ""
	}
	return s.weighting.Name()
}

// Factorization returns the name of the factorization.
func (s *Space) Factorization() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.basis == nil {
		return ""
	}
	return s.basis.Name()
}
