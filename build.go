package semspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/semspace/internal/config"
	"github.com/happyhackingspace/semspace/internal/corpus"
	"github.com/happyhackingspace/semspace/internal/space"
)

// BuildConfig holds build settings. See DefaultConfig.
type BuildConfig = config.BuildConfig

// DefaultConfig returns log-entropy weighting with scaled SVD to 100
// dimensions over document contexts.
func DefaultConfig() BuildConfig {
	return config.Default()
}

// LoadConfig reads a YAML build configuration over the defaults.
func LoadConfig(path string) (BuildConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("semspace: %w", err)
	}
	return cfg, nil
}

// Build builds a space from the corpus at corpusPath: a directory of .txt,
// .html and .lines files, or a single file with one document per line.
// A nil cfg uses DefaultConfig.
func Build(ctx context.Context, corpusPath string, cfg *BuildConfig) (*Space, error) {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	analyzer := cfg.TextAnalyzer()
	docs, closer, err := corpus.Open(ctx, analyzer, corpusPath)
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	defer func() { _ = closer.Close() }()
	return build(ctx, docs, cfg)
}

// BuildDocuments builds a space from in-memory texts, one document each.
func BuildDocuments(ctx context.Context, texts []string, cfg *BuildConfig) (*Space, error) {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	return build(ctx, corpus.FromStrings(cfg.TextAnalyzer(), texts...), cfg)
}

func build(ctx context.Context, docs corpus.Source, cfg *BuildConfig) (*Space, error) {
	opts, err := cfg.Options(slog.Default())
	if err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	sp := space.New(opts)
	if err := sp.Build(ctx, docs); err != nil {
		return nil, fmt.Errorf("semspace: %w", err)
	}
	return &Space{sp: sp, analyzer: cfg.TextAnalyzer()}, nil
}
