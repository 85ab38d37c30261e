package cli

import (
	"context"
	"path/filepath"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
	"github.com/pipsleuth/pipsleuth/pkg/store"
)

// newStore builds the scan record store selected by the config.
// The returned backend name is used for display and observability events.
func newStore(ctx context.Context, cfg *Config) (store.Store, string, error) {
	backend := cfg.Store.Backend
	if backend == "" {
		backend = "file"
	}

	switch backend {
	case "file":
		dir := cfg.Store.Dir
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, "", errors.Wrap(errors.ErrCodeStore, err, "locating data directory")
			}
			dir = filepath.Join(base, "scans")
		}
		s, err := store.NewFileStore(dir)
		if err != nil {
			return nil, "", err
		}
		return s, backend, nil

	case "redis":
		ttl, err := cfg.Store.Redis.redisTTL()
		if err != nil {
			return nil, "", err
		}
		s, err := store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			TTL:      ttl,
		})
		if err != nil {
			return nil, "", err
		}
		return s, backend, nil

	case "mongo":
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
		})
		if err != nil {
			return nil, "", err
		}
		return s, backend, nil

	case "none":
		return store.NewNullStore(), backend, nil

	default:
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (use file, redis, mongo, or none)", backend)
	}
}
