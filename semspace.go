// Package semspace builds distributional semantic spaces from text.
//
// Documents are counted into a term-by-context matrix, reweighted and reduced
// by truncated SVD. The resulting space maps words and documents to vectors
// and projects new text into the same coordinates.
//
//	cfg := semspace.DefaultConfig()
//	cfg.Rank = 2
//	s, _ := semspace.BuildDocuments(ctx, []string{
//	    "shipment of gold damaged in a fire",
//	    "delivery of silver arrived in a silver truck",
//	    "shipment of gold arrived in a truck",
//	}, &cfg)
//	v, _ := s.Project("gold silver truck") // len(v) == 2
package semspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/happyhackingspace/semspace/internal/space"
	"github.com/happyhackingspace/semspace/internal/store"
	"github.com/happyhackingspace/semspace/internal/textutil"
)

// Errors returned by Space operations. Use errors.Is to test for them.
var (
	ErrNotFound         = space.ErrNotFound
	ErrInvalidRank      = space.ErrInvalidRank
	ErrNumericalFailure = space.ErrNumericalFailure
	ErrAlreadyBuilt     = space.ErrAlreadyBuilt
	ErrUnsupported      = space.ErrUnsupported
	ErrCancelled        = space.ErrCancelled
)

// Neighbor is a term ranked by cosine similarity.
type Neighbor = space.Neighbor

// Space is a built semantic space together with the tokenizer used to
// build it.
type Space struct {
	sp       *space.Space
	analyzer textutil.Analyzer
}

// DataDir returns the directory used for the default space store
// (~/.semspace).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".semspace"
	}
	return filepath.Join(home, ".semspace")
}

// DefaultStorePath is the bbolt file used when no store path is given.
func DefaultStorePath() string {
	return filepath.Join(DataDir(), "spaces.db")
}

func analyzerFor(cfg *BuildConfig) textutil.Analyzer {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	return cfg.TextAnalyzer()
}

// Load reads a space written by Save. cfg supplies the tokenizer for
// Project and may be nil for the defaults.
func Load(path string, cfg *BuildConfig) (*Space, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	defer func() { _ = f.Close() }()
	sp, err := space.Load(f, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return &Space{sp: sp, analyzer: analyzerFor(cfg)}, nil
}

// Save writes the space to path.
func (s *Space) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("semspace: %w", err)
	}
	if err := s.sp.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("semspace: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("semspace: %w", err)
	}
	return nil
}

// LoadStored reads the space stored under name in the bbolt store at
// storePath.
func LoadStored(storePath, name string, cfg *BuildConfig) (*Space, error) {
	st, err := store.Open(storePath, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	defer func() { _ = st.Close() }()
	sp, err := st.Get(name)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return &Space{sp: sp, analyzer: analyzerFor(cfg)}, nil
}

// Store saves the space under name in the bbolt store at storePath,
// creating the file if needed.
func (s *Space) Store(storePath, name string) error {
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return fmt.Errorf("semspace: %w", err)
	}
	st, err := store.Open(storePath, slog.Default())
	if err != nil {
		return fmt.Errorf("semspace: %w", err)
	}
	defer func() { _ = st.Close() }()
	if err := st.Put(name, s.sp); err != nil {
		return fmt.Errorf("semspace: %w", err)
	}
	return nil
}

// VectorFor returns the vector of term.
func (s *Space) VectorFor(term string) ([]float64, error) {
	v, err := s.sp.VectorFor(term)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return v, nil
}

// DocumentVector returns the vector of the i-th build document.
func (s *Space) DocumentVector(i int) ([]float64, error) {
	v, err := s.sp.DocumentVector(i)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return v, nil
}

// DocumentID returns the corpus id of the i-th build document.
func (s *Space) DocumentID(i int) (string, error) {
	id, err := s.sp.DocumentID(i)
	if err != nil {
		return "", fmt.Errorf("semspace: %w", err)
	}
	return id, nil
}

// Project tokenizes text and maps it into the space.
func (s *Space) Project(text string) ([]float64, error) {
	return s.ProjectTokens(s.analyzer.Analyze(text))
}

// ProjectTokens maps an already tokenized document into the space.
func (s *Space) ProjectTokens(tokens []string) ([]float64, error) {
	v, err := s.sp.Project(tokens)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return v, nil
}

// Similar returns the n terms closest to term.
func (s *Space) Similar(term string, n int) ([]Neighbor, error) {
	ns, err := s.sp.Similar(term, n)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return ns, nil
}

// SimilarText projects text and returns the n closest terms.
func (s *Space) SimilarText(text string, n int) ([]Neighbor, error) {
	v, err := s.Project(text)
	if err != nil {
		return nil, err
	}
	ns, err := s.sp.Nearest(v, n)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return ns, nil
}

// Terms returns the vocabulary in id order.
func (s *Space) Terms() []string { return s.sp.Terms() }

// K returns the vector dimension.
func (s *Space) K() int { return s.sp.K() }

// NumDocuments returns the number of retained document vectors.
func (s *Space) NumDocuments() int { return s.sp.NumDocuments() }

// Info summarizes the space.
type Info struct {
	Terms         int    `json:"terms"`
	Contexts      int    `json:"contexts"`
	K             int    `json:"k"`
	Documents     int    `json:"documents"`
	Transform     string `json:"transform"`
	Factorization string `json:"factorization"`
}

// Info returns the space dimensions and the strategies it was built with.
func (s *Space) Info() Info {
	terms, k := s.sp.Dims()
	return Info{
		Terms:         terms,
		Contexts:      s.sp.NumContexts(),
		K:             k,
		Documents:     s.sp.NumDocuments(),
		Transform:     s.sp.Transform(),
		Factorization: s.sp.Factorization(),
	}
}
