package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStore reads and writes the local filesystem. Keys are slash
// separated and relative to Root; an empty Root leaves keys untouched.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) path(key string) string {
	p := filepath.FromSlash(key)
	if s.Root == "" {
		return p
	}
	return filepath.Join(s.Root, p)
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}

// Create writes to a temporary file next to key and renames it into place
// on Close.
func (s *LocalStore) Create(ctx context.Context, key string) (Writer, error) {
	path := s.path(key)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &localWriter{f: f, path: path}, nil
}

type localWriter struct {
	f    *os.File
	path string
	done bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, fs.ErrClosed
	}
	return w.f.Write(p)
}

func (w *localWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	tmp := w.f.Name()
	if err := w.f.Chmod(0644); err != nil {
		w.f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := w.f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit file: %w", err)
	}
	return nil
}

func (w *localWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	w.f.Close()
	if err := os.Remove(w.f.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to discard file: %w", err)
	}
	return nil
}

// List returns every regular file below prefix, sorted.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	root := s.path(prefix)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if s.Root == "" {
			keys = append(keys, filepath.ToSlash(path))
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})

	sort.Strings(keys)
	return keys, err
}

func (s *LocalStore) Location(key string) string {
	return s.path(key)
}
