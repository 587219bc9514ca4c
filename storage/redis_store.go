package storage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore publishes each document under prefix+key. All keys of a run are
// set in one MULTI/EXEC.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Key(key string) string { return s.prefix + key }

func (s *RedisStore) Write(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, doc := range docs {
			pipe.Set(ctx, s.Key(doc.Key), doc.Body, 0)
		}
		return nil
	})
	return errors.Wrap(err, "redis publish")
}
