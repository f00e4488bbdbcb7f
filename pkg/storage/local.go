package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage is a local-filesystem implementation of Storage. Files land
// under root and are served from baseURL by the HTTP layer's static route.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates a LocalStorage rooted at root. baseURL is the
// public URL prefix corresponding to root.
func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save writes the content of r to root/dir/filename.
func (s *LocalStorage) Save(dir, filename string, r io.Reader) (string, error) {
	fullDir := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}

	full := filepath.Join(fullDir, filename)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", filename, err)
	}
	return s.baseURL + "/" + dir + "/" + filename, nil
}
