package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Energy1190/autossl/core/certstore"
)

// Compile-time check that Store implements the capability contract.
var _ certstore.Store = (*Store)(nil)

// Config holds Postgres connection configuration with environment variable
// mapping.
type Config struct {
	ConnectionURL string `env:"DATABASE_URL,required"`
}

// Querier is the subset of pgxpool.Pool used by Store. Narrow so tests can
// substitute a fake.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store is a Postgres-backed certstore.Store. Rows carry the expiry alongside
// the value; expired rows are treated as absent on read rather than reaped
// eagerly, keeping the adapter on the capability floor.
type Store struct {
	db Querier
}

// Connect opens a pool, verifies connectivity, and wraps it.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return New(pool), nil
}

// New wraps an existing pool or transaction.
func New(db Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `
		SELECT value FROM autossl_kv
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`

	var value []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, certstore.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	const query = `
		INSERT INTO autossl_kv (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	if _, err := s.db.Exec(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM autossl_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) KeysWithSuffix(ctx context.Context, suffix string) ([]string, error) {
	const query = `
		SELECT key FROM autossl_kv
		WHERE key LIKE $1 ESCAPE '\'
		AND (expires_at IS NULL OR expires_at > now())
		ORDER BY key`

	rows, err := s.db.Query(ctx, query, "%"+escapeLike(suffix))
	if err != nil {
		return nil, fmt.Errorf("postgres list %q: %w", suffix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("postgres list %q: %w", suffix, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list %q: %w", suffix, err)
	}
	return keys, nil
}

// Healthcheck returns a health check function that pings the pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return pool.Ping
}

// escapeLike escapes LIKE metacharacters so a suffix is matched literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
