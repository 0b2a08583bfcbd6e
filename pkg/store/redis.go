package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces snapshot keys.
const DefaultRedisPrefix = "raytone:snapshot:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key. Empty means DefaultRedisPrefix.
	Prefix string
}

// RedisStore keeps snapshots in Redis, one string key per snapshot.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, backendError(BackendRedis, "connect "+cfg.Addr, err)
	}
	return newRedisStore(client, cfg.Prefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Key returns the Redis key that holds id.
func (s *RedisStore) Key(id string) string { return s.prefix + id }

// ID is the inverse of [RedisStore.Key]. ok is false for keys outside the
// store's prefix.
func (s *RedisStore) ID(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, s.prefix)
	return id, ok && id != ""
}

// Get reads id. redis.Nil is reported as a miss.
func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := s.client.Get(ctx, s.Key(id)).Bytes()
		data = b
		return transient(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, backendError(BackendRedis, "get", err)
	}
	return data, true, nil
}

// Put stores data under id without expiry.
func (s *RedisStore) Put(ctx context.Context, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := RetryWithBackoff(ctx, func() error {
		return transient(s.client.Set(ctx, s.Key(id), data, 0).Err())
	})
	if err != nil {
		return backendError(BackendRedis, "put", err)
	}
	return nil
}

// Delete removes id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := RetryWithBackoff(ctx, func() error {
		return transient(s.client.Del(ctx, s.Key(id)).Err())
	})
	if err != nil {
		return backendError(BackendRedis, "delete", err)
	}
	return nil
}

// List scans the key space under the store's prefix.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if id, ok := s.ID(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, backendError(BackendRedis, "list", err)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
