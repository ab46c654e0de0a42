package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Staging buffers uploaded bytes to local scratch space so the probe and
// the placer can read them. Paths carry a request-scoped UUID component,
// so two in-flight uploads of the same video never share a file; each
// request removes only the path it created.
type Staging struct {
	root string
}

// NewStaging creates the scratch root if needed.
func NewStaging(root string) (*Staging, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create scratch dir %q: %w", root, err)
	}
	return &Staging{root: root}, nil
}

// Stash writes the full stream to a fresh scratch path and returns the
// path only after the data has been flushed to disk. On a write error no
// partial file is left behind.
func (s *Staging) Stash(videoID, ext string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%s%s", videoID, uuid.NewString(), ext)
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write staging file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("flush staging file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close staging file: %w", err)
	}

	return path, nil
}

// Remove deletes a staging file. An already-absent file is not an error,
// so the release path is idempotent.
func (s *Staging) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
