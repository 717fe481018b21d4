// Package corpus reads documents for semantic space construction.
//
// Every reader returns an iter.Seq2 of (Document, error). A non-nil error
// refers to that document only; consumers skip it and keep reading.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/happyhackingspace/semspace/internal/htmlutil"
	"github.com/happyhackingspace/semspace/internal/textutil"
)

// Document is a tokenized document.
type Document struct {
	ID     string
	Tokens []string
}

// Source produces documents lazily.
type Source = iter.Seq2[Document, error]

// FromStrings analyzes each text as one document. Ids are the positions.
func FromStrings(a textutil.Analyzer, texts ...string) Source {
	return func(yield func(Document, error) bool) {
		for i, text := range texts {
			if !yield(Document{ID: strconv.Itoa(i), Tokens: a.Analyze(text)}, nil) {
				return
			}
		}
	}
}

// FromLines reads one document per non-empty line of r.
func FromLines(a textutil.Analyzer, r io.Reader) Source {
	return func(yield func(Document, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
		n := 0
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			doc := Document{ID: strconv.Itoa(n), Tokens: a.Analyze(line)}
			n++
			if !yield(doc, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Document{}, fmt.Errorf("read lines: %w", err))
		}
	}
}

// FromDir walks dir in lexical order. Files ending in .txt are one document
// each, .html and .htm files contribute their visible text, and .lines files
// hold one document per line. Other files are ignored.
func FromDir(ctx context.Context, a textutil.Analyzer, dir string) Source {
	return func(yield func(Document, error) bool) {
		var paths []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isCorpusFile(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			yield(Document{}, fmt.Errorf("walk %s: %w", dir, err))
			return
		}
		sort.Strings(paths)

		for _, path := range paths {
			if ctx.Err() != nil {
				yield(Document{}, ctx.Err())
				return
			}
			rel, _ := filepath.Rel(dir, path)
			if strings.EqualFold(filepath.Ext(path), ".lines") {
				if !yieldLines(a, path, rel, yield) {
					return
				}
				continue
			}
			text, err := readFile(path)
			if err != nil {
				if !yield(Document{ID: rel}, fmt.Errorf("read %s: %w", rel, err)) {
					return
				}
				continue
			}
			if !yield(Document{ID: rel, Tokens: a.Analyze(text)}, nil) {
				return
			}
		}
	}
}

func yieldLines(a textutil.Analyzer, path, rel string, yield func(Document, error) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return yield(Document{ID: rel}, fmt.Errorf("open %s: %w", rel, err))
	}
	defer func() { _ = f.Close() }()
	for doc, err := range FromLines(a, f) {
		doc.ID = rel + ":" + doc.ID
		if !yield(doc, err) {
			return false
		}
	}
	return true
}

func isCorpusFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".html", ".htm", ".lines":
		return true
	}
	return false
}

func readFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		doc, err := htmlutil.LoadHTML(f, "")
		if err != nil {
			return "", err
		}
		return htmlutil.Title(doc) + " " + htmlutil.Text(doc), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// Open returns a source for path: a directory is walked with FromDir, any
// other file is read one document per line.
func Open(ctx context.Context, a textutil.Analyzer, path string) (Source, io.Closer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return FromDir(ctx, a, path), nopCloser{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return FromLines(a, f), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
