// Package store persists resolved layouts as id-to-transform maps.
//
// A build reads the prior layout once before resolving and writes the new
// layout once after the update plan is applied. Failed runs never write,
// so the store always reflects the last layout the engine actually
// reached.
//
// Backends are selected by URL: redis:// and mongodb:// pick the network
// backends, a .db path picks SQLite, any other path picks the JSON file
// backend, and the empty string disables persistence.
package store

import (
	"context"
	"strings"

	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// Store is a persisted layout: the transforms of every object the engine
// currently holds, keyed by object id.
type Store interface {
	// Load returns the persisted transforms. A store that has never been
	// written returns an empty map, not an error.
	Load(ctx context.Context) (map[string]geometry.Transform, error)
	// Save replaces the persisted transforms wholesale.
	Save(ctx context.Context, transforms map[string]geometry.Transform) error
	// Close releases backend resources.
	Close() error
}

// Open selects a backend from a location spec.
func Open(spec string) (Store, error) {
	switch {
	case spec == "":
		return NewNullStore(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return NewRedisStore(spec)
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		return NewMongoStore(spec)
	case strings.HasSuffix(spec, ".db"), strings.HasSuffix(spec, ".sqlite"):
		return NewSQLiteStore(spec)
	default:
		return NewFileStore(spec)
	}
}
