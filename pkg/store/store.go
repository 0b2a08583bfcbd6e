// Package store keeps published snapshots under an id so they can be
// pasted into another patch, possibly on another machine.
//
// Backends:
//   - file: one JSON file per snapshot under a local directory
//   - redis: a shared Redis instance, for a clipboard across machines
//   - mongo: a MongoDB collection
//   - none: a store that keeps nothing
//
// Use [Open] to build the backend named in [Options], then wrap it with
// [Instrument] to report hits, misses and writes to observability hooks:
//
//	s, err := store.Open(ctx, store.Options{Backend: store.BackendFile, Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	id := store.NewID()
//	err = s.Put(ctx, id, data)
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/raytone/pkg/errors"
)

// Store holds opaque snapshot documents by id.
type Store interface {
	// Put stores data under id, replacing any previous value.
	Put(ctx context.Context, id string, data []byte) error

	// Get returns the data stored under id. ok is false on a miss.
	Get(ctx context.Context, id string) (data []byte, ok bool, err error)

	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored id in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Backends lists every backend name.
var Backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir is the file backend's directory.
	Dir string

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string

	// MongoURI and MongoDatabase locate the MongoDB database.
	MongoURI      string
	MongoDatabase string
}

// Open connects to the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		s, err = NewFileStore(opts.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: opts.RedisAddr})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: opts.MongoURI, Database: opts.MongoDatabase})
	case BackendNone:
		s = NewNullStore()
	default:
		err = errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewID returns a fresh snapshot id.
func NewID() string {
	return uuid.NewString()
}

func checkID(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot id cannot be empty")
	}
	return nil
}

func backendError(backend, op string, err error) error {
	return fmt.Errorf("%s store: %s: %w", backend, op, err)
}
