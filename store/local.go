package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local is a Backend that keeps each palette in a file below a root
// directory. Writes go through a temp file and rename, so readers never see
// partial blobs.
type Local struct {
	root string
}

var _ Backend = (*Local)(nil)

// NewLocal creates a local backend rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local: create root: %w", err)
	}

	return &Local{root: dir}, nil
}

// path maps a palette name to a file path, rejecting names that would
// escape the root.
func (l *Local) path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("local: invalid name %q", name)
	}

	return filepath.Join(l.root, filepath.FromSlash(name)), nil
}

func (l *Local) Put(_ context.Context, name string, data []byte) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("local: put %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("local: put %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("local: put %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("local: put %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("local: put %s: %w", name, err)
	}

	return nil
}

func (l *Local) Get(_ context.Context, name string) ([]byte, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// *fs.PathError wraps fs.ErrNotExist, which satisfies ErrNotFound.
		return nil, fmt.Errorf("local: get %s: %w", name, err)
	}

	return data, nil
}

func (l *Local) Delete(_ context.Context, name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local: delete %s: %w", name, err)
	}

	return nil
}

func (l *Local) List(_ context.Context) ([]string, error) {
	var names []string

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}

		names = append(names, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local: list: %w", err)
	}

	sort.Strings(names)

	return names, nil
}
