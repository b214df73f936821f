package store

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// SQLiteStore persists the layout in a single-row SQLite table as a JSON
// blob. One row keeps the read-once/write-once contract trivial and the
// file portable.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite-backed store at the given
// path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "open sqlite")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS layout (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "create layout table")
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the layout row. An empty table is an empty layout.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]geometry.Transform, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM layout WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return map[string]geometry.Transform{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "select layout")
	}

	var transforms map[string]geometry.Transform
	if err := json.Unmarshal(payload, &transforms); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "corrupt layout row")
	}
	return transforms, nil
}

// Save upserts the layout row.
func (s *SQLiteStore) Save(ctx context.Context, transforms map[string]geometry.Transform) error {
	payload, err := json.Marshal(transforms)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "encode layout")
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO layout (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`, payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "upsert layout")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
