package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/happyhackingspace/semspace/internal/corpus"
	"github.com/happyhackingspace/semspace/internal/space"
	"github.com/happyhackingspace/semspace/internal/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func builtSpace(t *testing.T) *space.Space {
	t.Helper()
	sp := space.New(space.Options{Rank: 2, RetainDocuments: true, Logger: quiet})
	docs := corpus.FromStrings(textutil.DefaultAnalyzer(),
		"shipment of gold damaged in a fire",
		"delivery of silver arrived in a silver truck",
		"shipment of gold arrived in a truck",
	)
	require.NoError(t, sp.Build(context.Background(), docs))
	return sp
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spaces.db")
	st, err := Open(path, quiet)
	require.NoError(t, err)

	sp := builtSpace(t)
	require.NoError(t, st.Put("news", sp))
	require.NoError(t, st.Put("archive", sp))

	names, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "news"}, names)

	got, err := st.Get("news")
	require.NoError(t, err)
	want, _ := sp.VectorFor("gold")
	v, err := got.VectorFor("gold")
	require.NoError(t, err)
	assert.Equal(t, want, v)

	require.NoError(t, st.Delete("archive"))
	assert.ErrorIs(t, st.Delete("archive"), ErrNotFound)
	_, err = st.Get("archive")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, st.Close())

	st, err = Open(path, quiet)
	require.NoError(t, err)
	defer st.Close()
	names, err = st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"news"}, names)
}

func TestPutUnbuilt(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "spaces.db"), quiet)
	require.NoError(t, err)
	defer st.Close()

	err = st.Put("empty", space.New(space.Options{Logger: quiet}))
	assert.ErrorIs(t, err, space.ErrNotBuilt)
	assert.Error(t, st.Put("", builtSpace(t)))
}
