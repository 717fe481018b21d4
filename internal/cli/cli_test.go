package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	c := New("test")
	c.rootCmd.SetArgs(append(args, "-s"))
	if err := c.Run(); err != nil {
		t.Fatalf("semspace %s: %v", strings.Join(args, " "), err)
	}
	return buf.String()
}

func TestBuildProjectStore(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "docs.lines")
	text := "shipment of gold damaged in a fire\ndelivery of silver arrived in a silver truck\nshipment of gold arrived in a truck\n"
	if err := os.WriteFile(corpus, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	spacePath := filepath.Join(dir, "space.txt")
	storePath := filepath.Join(dir, "spaces.db")

	run(t, "build", corpus, "--rank", "2", "--transform", "identity",
		"--out", spacePath, "--name", "gold", "--store-path", storePath)

	var v []float64
	out := run(t, "project", "gold", "silver", "truck", "--space", spacePath)
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("project output %q: %v", out, err)
	}
	if len(v) != 2 {
		t.Errorf("len(vector) = %d, want 2", len(v))
	}

	var stored []float64
	out = run(t, "project", "gold silver truck", "--name", "gold", "--store-path", storePath)
	if err := json.Unmarshal([]byte(out), &stored); err != nil {
		t.Fatal(err)
	}
	for i := range v {
		if v[i] != stored[i] {
			t.Errorf("stored projection = %v, want %v", stored, v)
			break
		}
	}

	out = run(t, "store", "list", "--store-path", storePath)
	if strings.TrimSpace(out) != "gold" {
		t.Errorf("store list = %q, want gold", out)
	}
	run(t, "store", "delete", "gold", "--store-path", storePath)
	if out := run(t, "store", "list", "--store-path", storePath); out != "" {
		t.Errorf("store list after delete = %q, want empty", out)
	}
}

func TestBuildRequiresOutput(t *testing.T) {
	c := New("test")
	c.rootCmd.SetArgs([]string{"build", t.TempDir(), "-s"})
	c.rootCmd.SetErr(&bytes.Buffer{})
	if err := c.Run(); err == nil {
		t.Error("build without --out or --name succeeded")
	}
}
