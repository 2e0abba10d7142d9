package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_CreateMakesParentDirs(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)
	ctx := context.Background()

	w, err := s.Create(ctx, "nested/dir/graph.msgpack")
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(root, "nested", "dir", "graph.msgpack"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	r, err := s.Open(ctx, "nested/dir/graph.msgpack")
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestLocalStore_NothingVisibleBeforeClose(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)

	w, err := s.Create(context.Background(), "out/graph.msgpack")
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)

	_, err = s.Open(context.Background(), "out/graph.msgpack")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, w.Close())
	info, err := os.Stat(filepath.Join(root, "out", "graph.msgpack"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0644), info.Mode().Perm())
}

func TestLocalStore_AbortDiscards(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)
	ctx := context.Background()
	path := filepath.Join(root, "out", "graph.msgpack")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	w, err := s.Create(ctx, "out/graph.msgpack")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	require.NoError(t, w.Close(), "close after abort is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	keys, err := s.List(ctx, "out")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/graph.msgpack"}, keys, "no temporary file is left behind")
}

func TestLocalStore_OpenMissing(t *testing.T) {
	s := NewLocalStore(t.TempDir())

	_, err := s.Open(context.Background(), "mysterious_file.msgpack")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStore_List(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)
	ctx := context.Background()

	for _, key := range []string{"out/graph_2.msgpack", "out/graph_1.msgpack", "other/x"} {
		w, err := s.Create(ctx, key)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	keys, err := s.List(ctx, "out")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/graph_1.msgpack", "out/graph_2.msgpack"}, keys)

	keys, err = s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStore_EmptyRootUsesPathsAsGiven(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore("")
	key := filepath.ToSlash(filepath.Join(dir, "a.bin"))

	w, err := s.Create(context.Background(), key)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.FileExists(t, filepath.Join(dir, "a.bin"))
	assert.Equal(t, filepath.Join(dir, "a.bin"), s.Location(key))
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://graphs/2024/graph.msgpack")
	require.NoError(t, err)
	assert.Equal(t, "graphs", bucket)
	assert.Equal(t, "2024/graph.msgpack", key)

	_, _, err = ParseS3URL("s3:///nobucket")
	assert.Error(t, err)
}

func TestResolve_Local(t *testing.T) {
	store, key, err := Resolve(context.Background(), "tmp/graph.msgpack")
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
	assert.Equal(t, "tmp/graph.msgpack", key)
}
