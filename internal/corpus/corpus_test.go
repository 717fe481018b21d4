package corpus

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/semspace/internal/textutil"
)

func collect(t *testing.T, src Source) ([]Document, []error) {
	t.Helper()
	var docs []Document
	var errs []error
	for doc, err := range src {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

func TestFromStrings(t *testing.T) {
	docs, errs := collect(t, FromStrings(textutil.DefaultAnalyzer(), "Shipment of Gold", "silver truck"))
	if len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}
	want := []Document{
		{ID: "0", Tokens: []string{"shipment", "of", "gold"}},
		{ID: "1", Tokens: []string{"silver", "truck"}},
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("FromStrings = %v, want %v", docs, want)
	}
}

func TestFromLines(t *testing.T) {
	input := "shipment of gold\n\n  \ndelivery of silver\r\n"
	docs, errs := collect(t, FromLines(textutil.DefaultAnalyzer(), strings.NewReader(input)))
	if len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[1].ID != "1" || docs[1].Tokens[2] != "silver" {
		t.Errorf("second document = %v", docs[1])
	}
}

func TestFromLinesStopsEarly(t *testing.T) {
	n := 0
	for range FromLines(textutil.DefaultAnalyzer(), strings.NewReader("a\nb\nc\n")) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterations = %d, want 1", n)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "Delivery of silver")
	writeFile(t, filepath.Join(dir, "a.html"), `<html><head><title>Gold</title><style>p{}</style></head>
<body><p>Shipment of gold</p><script>var x = 1;</script></body></html>`)
	writeFile(t, filepath.Join(dir, "sub", "c.lines"), "silver truck\ngold truck\n")
	writeFile(t, filepath.Join(dir, "ignored.json"), `{"a": 1}`)

	docs, errs := collect(t, FromDir(context.Background(), textutil.DefaultAnalyzer(), dir))
	if len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	wantIDs := []string{"a.html", "b.txt", filepath.Join("sub", "c.lines") + ":0", filepath.Join("sub", "c.lines") + ":1"}
	if !reflect.DeepEqual(ids, wantIDs) {
		t.Errorf("ids = %v, want %v", ids, wantIDs)
	}

	wantHTML := []string{"gold", "shipment", "of", "gold"}
	if !reflect.DeepEqual(docs[0].Tokens, wantHTML) {
		t.Errorf("html tokens = %v, want %v", docs[0].Tokens, wantHTML)
	}
}

func TestFromDirMissing(t *testing.T) {
	_, errs := collect(t, FromDir(context.Background(), textutil.DefaultAnalyzer(), filepath.Join(t.TempDir(), "missing")))
	if len(errs) != 1 {
		t.Errorf("errors = %v, want one", errs)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	writeFile(t, path, "one\ntwo\nthree\n")
	src, closer, err := Open(context.Background(), textutil.DefaultAnalyzer(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	docs, _ := collect(t, src)
	if len(docs) != 3 {
		t.Errorf("got %d documents, want 3", len(docs))
	}
}
