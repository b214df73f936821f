package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// layoutKey is the Redis key holding the serialized layout.
const layoutKey = "roomsmith:layout"

// RedisStore keeps the layout as a JSON blob under a single key, for
// setups where several machines drive the same engine.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance named by a redis:// URL.
func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "parse redis url")
	}
	return &RedisStore{client: redis.NewClient(opt)}, nil
}

// Load reads the layout key. A missing key is an empty layout.
func (s *RedisStore) Load(ctx context.Context) (map[string]geometry.Transform, error) {
	data, err := s.client.Get(ctx, layoutKey).Bytes()
	if err == redis.Nil {
		return map[string]geometry.Transform{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "redis get")
	}

	var transforms map[string]geometry.Transform
	if err := json.Unmarshal(data, &transforms); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "corrupt layout value")
	}
	return transforms, nil
}

// Save replaces the layout key.
func (s *RedisStore) Save(ctx context.Context, transforms map[string]geometry.Transform) error {
	data, err := json.Marshal(transforms)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "encode layout")
	}
	if err := s.client.Set(ctx, layoutKey, data, 0).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "redis set")
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
