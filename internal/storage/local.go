package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps uploaded files on the local filesystem. Stored names are
// generated, never taken from the upload, so a crafted filename cannot
// escape the directory.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory if missing.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the payload under a generated name and returns its URL path.
func (s *LocalStore) Save(_ context.Context, filename, _ string, r io.Reader, _ int64) (string, error) {
	name := "book-" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	target := filepath.Join(s.dir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.baseURL + "/uploads/books/" + name, nil
}

// Delete removes the file a previously returned URL points at.
func (s *LocalStore) Delete(_ context.Context, fileURL string) error {
	name := path.Base(fileURL)
	if name == "" || name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
