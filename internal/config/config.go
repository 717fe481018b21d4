// Package config loads build settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/happyhackingspace/semspace/internal/factor"
	"github.com/happyhackingspace/semspace/internal/space"
	"github.com/happyhackingspace/semspace/internal/textutil"
	"github.com/happyhackingspace/semspace/internal/transform"
	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"gopkg.in/yaml.v3"
)

// AnalyzerConfig controls tokenization.
type AnalyzerConfig struct {
	Lowercase bool `yaml:"lowercase"`
	// StopWords is "english" or "none".
	StopWords string `yaml:"stop_words"`
	MinLength int    `yaml:"min_length"`
	MaxNgram  int    `yaml:"max_ngram"`
}

// BuildConfig holds everything needed to build a space.
type BuildConfig struct {
	Transform         string         `yaml:"transform"`
	Factorization     string         `yaml:"factorization"`
	Rank              int            `yaml:"rank"`
	Context           string         `yaml:"context"`
	Window            int            `yaml:"window"`
	DistanceWeighting bool           `yaml:"distance_weighting"`
	Workers           int            `yaml:"workers"`
	RetainDocuments   bool           `yaml:"retain_documents"`
	Analyzer          AnalyzerConfig `yaml:"analyzer"`
}

// Default returns an LSA-style configuration: log-entropy weighting and
// scaled SVD over document contexts.
func Default() BuildConfig {
	return BuildConfig{
		Transform:       "log-entropy",
		Factorization:   "svd",
		Rank:            100,
		Context:         string(vectorizer.DocumentContext),
		Window:          5,
		RetainDocuments: true,
		Analyzer: AnalyzerConfig{
			Lowercase: true,
			StopWords: "none",
			MaxNgram:  1,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (BuildConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (BuildConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return BuildConfig{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BuildConfig{}, err
	}
	return cfg, nil
}

// Validate checks names and ranges.
func (c BuildConfig) Validate() error {
	if _, err := transform.Get(c.Transform); err != nil {
		return fmt.Errorf("config: %w (available: %v)", err, transform.Names())
	}
	if _, err := factor.Get(c.Factorization); err != nil {
		return fmt.Errorf("config: %w (available: %v)", err, factor.Names())
	}
	if c.Rank < 0 {
		return fmt.Errorf("config: rank must be >= 0, got %d", c.Rank)
	}
	switch vectorizer.ContextMode(c.Context) {
	case vectorizer.DocumentContext, vectorizer.WindowContext:
	default:
		return fmt.Errorf("config: unknown context %q", c.Context)
	}
	if c.Window < 0 {
		return fmt.Errorf("config: window must be >= 0, got %d", c.Window)
	}
	switch c.Analyzer.StopWords {
	case "", "none", "english":
	default:
		return fmt.Errorf("config: unknown stop words %q", c.Analyzer.StopWords)
	}
	return nil
}

// Options resolves the configuration into space options.
func (c BuildConfig) Options(logger *slog.Logger) (space.Options, error) {
	if err := c.Validate(); err != nil {
		return space.Options{}, err
	}
	t, _ := transform.Get(c.Transform)
	f, _ := factor.Get(c.Factorization)
	return space.Options{
		Transform:         t,
		Factorizer:        f,
		Rank:              c.Rank,
		Context:           vectorizer.ContextMode(c.Context),
		Window:            c.Window,
		DistanceWeighting: c.DistanceWeighting,
		Workers:           c.Workers,
		RetainDocuments:   c.RetainDocuments,
		Logger:            logger,
	}, nil
}

// TextAnalyzer returns the configured tokenizer.
func (c BuildConfig) TextAnalyzer() textutil.Analyzer {
	a := textutil.Analyzer{
		Lowercase: c.Analyzer.Lowercase,
		MinLength: c.Analyzer.MinLength,
		MaxNgram:  c.Analyzer.MaxNgram,
	}
	if c.Analyzer.StopWords == "english" {
		a.StopWords = textutil.EnglishStopWords()
	}
	return a
}

// Write encodes c as YAML.
func (c BuildConfig) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return enc.Close()
}
