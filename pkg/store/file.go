package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// FileStore keeps the layout in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path. Parent
// directories are created on first save, not here, so pointing at a
// read-only location only fails once a write happens.
func NewFileStore(path string) (*FileStore, error) {
	return &FileStore{path: path}, nil
}

// Load reads the layout file. A missing file is an empty layout.
func (s *FileStore) Load(ctx context.Context) (map[string]geometry.Transform, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]geometry.Transform{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "read layout file")
	}

	var transforms map[string]geometry.Transform
	if err := json.Unmarshal(data, &transforms); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "corrupt layout file")
	}
	return transforms, nil
}

// Save writes the layout atomically: to a temp file in the same
// directory, then rename.
func (s *FileStore) Save(ctx context.Context, transforms map[string]geometry.Transform) error {
	data, err := json.MarshalIndent(transforms, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "encode layout")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "create layout directory")
	}
	tmp, err := os.CreateTemp(dir, ".layout-*.json")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "create temp layout file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "write layout file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "close layout file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "replace layout file")
	}
	return nil
}

// Close does nothing; the file is not held open between calls.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
