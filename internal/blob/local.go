package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a filesystem-backed store for development and tests. URIs use a
// file:// scheme rooted at the store directory.
type Local struct {
	dir string
}

// NewLocal creates a store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: create dir %q: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Save implements Store. contentType is ignored for local files.
func (l *Local) Save(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	path := filepath.Join(l.dir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("local save: create dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("local save: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("local save: write file: %w", err)
	}
	return "file://" + filepath.ToSlash(path), nil
}

// Fetch implements Store.
func (l *Local) Fetch(ctx context.Context, uri string) ([]byte, error) {
	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		return nil, fmt.Errorf("local fetch: %w", err)
	}
	return data, nil
}
