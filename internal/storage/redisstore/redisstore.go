package redisstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/multipost-api/internal/storage"
)

func init() {
	storage.Register("redis", open)
	storage.Register("rediss", open)
}

// Store exposes a Redis logical database as a storage.Handle. Keys stand in
// for collections.
type Store struct {
	client *redis.Client
	db     int
}

func New(dsn string) (*Store, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &Store{client: redis.NewClient(opts), db: opts.DB}, nil
}

func open(ctx context.Context, dsn string) (storage.Handle, error) {
	h, err := New(dsn)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Store) Name() string {
	return fmt.Sprintf("db%d", s.db)
}

func (s *Store) ListCollections(ctx context.Context, limit int) ([]string, error) {
	keys := make([]string, 0, limit)

	iter := s.client.Scan(ctx, 0, "*", int64(limit)).Iterator()
	for len(keys) < limit && iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
