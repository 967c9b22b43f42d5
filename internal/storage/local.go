package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// LocalStorage stores blobs as files under a base directory. It is the
// development fallback when no Azure connection string is configured.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

var _ Storage = (*LocalStorage)(nil)

func (s *LocalStorage) Put(_ context.Context, name string, data io.Reader, _ string) error {
	dest := filepath.Join(s.baseDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("storage: create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	return nil
}

func (s *LocalStorage) Get(_ context.Context, name string) (*Object, error) {
	dest := filepath.Join(s.baseDir, filepath.FromSlash(name))
	f, err := os.Open(dest)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: stat: %w", err)
	}

	// The filesystem keeps no content-type metadata; infer from the extension.
	ct := mime.TypeByExtension(filepath.Ext(dest))
	if ct == "" {
		ct = "application/octet-stream"
	}

	return &Object{
		Body:          f,
		ContentType:   ct,
		ContentLength: info.Size(),
		ETag:          fmt.Sprintf("%x-%x", info.ModTime().UnixNano(), info.Size()),
	}, nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	dest := filepath.Join(s.baseDir, filepath.FromSlash(name))
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}
