package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

const (
	redisKeyPrefix = "pipsleuth:scan:"
	redisIndexKey  = "pipsleuth:scans"
)

// RedisStore keeps scan records in Redis, suitable for short-lived shared
// results. Records may expire via TTL; the index of scan IDs is a sorted
// set scored by creation time.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration // 0 means no expiration
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string        // host:port
	Password string        // optional
	DB       int           // logical database
	TTL      time.Duration // record lifetime; 0 keeps records forever
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Put stores the record under its scan key and indexes the ID.
func (s *RedisStore) Put(ctx context.Context, rec *ScanRecord) error {
	if rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidRecord, "scan record has no ID")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding scan %s", rec.ID)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+rec.ID, data, s.ttl)
	pipe.ZAdd(ctx, redisIndexKey, redis.Z{
		Score:  float64(rec.CreatedAt.UnixNano()),
		Member: rec.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "storing scan %s", rec.ID)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*ScanRecord, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeScanNotFound, "scan %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading scan %s", id)
	}

	var rec ScanRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "decoding scan %s", id)
	}
	return &rec, nil
}

// List returns stored scan IDs, newest first. IDs whose record has expired
// are pruned from the index lazily.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRevRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing scans")
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, redisKeyPrefix+id).Result()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "checking scan %s", id)
		}
		if exists == 0 {
			_ = s.client.ZRem(ctx, redisIndexKey, id).Err()
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
