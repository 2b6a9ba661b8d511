package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Energy1190/autossl/core/certstore"
)

// Compile-time check that Store implements the capability contract.
var _ certstore.Store = (*Store)(nil)

// Config holds Redis connection configuration with environment variable
// mapping.
type Config struct {
	ConnectionURL string `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	ScanBatchSize int64  `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
}

// Client is the subset of the go-redis client used by Store. Satisfied by
// *goredis.Client; narrow so tests can substitute a fake.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *goredis.ScanCmd
	Ping(ctx context.Context) *goredis.StatusCmd
}

// Store is a Redis-backed certstore.Store. Redis covers the capability floor
// natively: per-key TTL via SET EX and suffix enumeration via SCAN.
type Store struct {
	client    Client
	scanBatch int64
}

// Connect parses cfg, connects, and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	opt, err := goredis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseConnString, err)
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	return NewWithClient(client, cfg.ScanBatchSize), nil
}

// NewWithClient wraps an existing client. A non-positive scanBatch falls back
// to 1000.
func NewWithClient(client Client, scanBatch int64) *Store {
	if scanBatch <= 0 {
		scanBatch = 1000
	}
	return &Store{client: client, scanBatch: scanBatch}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, certstore.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) KeysWithSuffix(ctx context.Context, suffix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, "*"+suffix, s.scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %q: %w", suffix, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Healthcheck returns a health check function that pings Redis. Suitable for
// readiness probes.
func Healthcheck(client Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
