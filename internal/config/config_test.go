package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/happyhackingspace/semspace/internal/vectorizer"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	opts, err := cfg.Options(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Transform.Name() != "log-entropy" || opts.Factorizer.Name() != "svd" {
		t.Errorf("options = %s/%s, want log-entropy/svd", opts.Transform.Name(), opts.Factorizer.Name())
	}
	if opts.Context != vectorizer.DocumentContext {
		t.Errorf("Context = %v, want %v", opts.Context, vectorizer.DocumentContext)
	}
}

func TestDecode(t *testing.T) {
	input := `
transform: ppmi
factorization: svd-unscaled
rank: 50
context: window
window: 3
analyzer:
  stop_words: english
  min_length: 2
`
	cfg, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transform != "ppmi" || cfg.Rank != 50 || cfg.Window != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.RetainDocuments || !cfg.Analyzer.Lowercase {
		t.Errorf("defaults not kept: %+v", cfg)
	}
	a := cfg.TextAnalyzer()
	got := a.Analyze("The gold of a ship")
	want := []string{"gold", "ship"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Decode(\"\") = %+v, want defaults", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BuildConfig)
	}{
		{"transform", func(c *BuildConfig) { c.Transform = "bm25" }},
		{"factorization", func(c *BuildConfig) { c.Factorization = "nmf" }},
		{"rank", func(c *BuildConfig) { c.Rank = -1 }},
		{"context", func(c *BuildConfig) { c.Context = "sentence" }},
		{"window", func(c *BuildConfig) { c.Window = -2 }},
		{"stop words", func(c *BuildConfig) { c.Analyzer.StopWords = "klingon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestDecodeUnknownKey(t *testing.T) {
	if _, err := Decode(strings.NewReader("rnak: 5\n")); err == nil {
		t.Error("Decode with unknown key = nil, want error")
	}
}

func TestWriteLoad(t *testing.T) {
	cfg := Default()
	cfg.Rank = 7
	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "semspace.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("Load = %+v, want %+v", got, cfg)
	}
}
