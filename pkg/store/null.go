package store

import (
	"context"

	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// NullStore disables persistence. Every load sees an empty layout and
// saves are dropped, so each build plans from scratch.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Load always returns an empty layout.
func (s *NullStore) Load(ctx context.Context) (map[string]geometry.Transform, error) {
	return map[string]geometry.Transform{}, nil
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, transforms map[string]geometry.Transform) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)
