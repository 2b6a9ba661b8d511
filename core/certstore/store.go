package certstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Store is the capability contract required of any backing key-value store.
// It is deliberately minimal: single-key get, set with optional expiry,
// delete, and suffix enumeration. No transactions, no compare-and-swap, no
// multi-key atomicity. Everything in this package is built to remain correct
// (within its documented weak guarantees) on exactly this floor, so that
// arbitrarily simple backends stay usable. Implementations must not be relied
// on for anything richer.
type Store interface {
	// Get returns the value stored under key. Absence is reported as
	// ErrKeyNotFound, distinct from any backend failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. A positive ttl asks the store to expire the
	// key on its own; zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// KeysWithSuffix enumerates all keys ending in suffix.
	KeysWithSuffix(ctx context.Context, suffix string) ([]string, error)
}

// Codec encodes and decodes stored records. The default JSONCodec matches the
// wire format of existing deployments; swap it only when every reader and
// writer of the shared store agrees.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec is the default Codec.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

// Config holds the capabilities and tunables for Storage. Store and Codec are
// injected; the lock tunables default to the values existing deployments
// expect and can be overridden through the environment.
type Config struct {
	// Store is the backing key-value store shared across instances. Required.
	Store Store `env:"-"`

	// Codec serializes certificate and multiname records. Required.
	Codec Codec `env:"-"`

	// LockTTL is the expiry written with issuance and multiname locks. The
	// expiry is the sole crash-recovery mechanism for a holder that dies
	// without releasing.
	LockTTL time.Duration `env:"AUTOSSL_LOCK_TTL" envDefault:"30s"`

	// LockWait caps how long an acquirer polls a held issuance lock before
	// proceeding anyway.
	LockWait time.Duration `env:"AUTOSSL_LOCK_WAIT" envDefault:"30s"`

	// LockBackoff is the fixed sleep between issuance lock polls.
	LockBackoff time.Duration `env:"AUTOSSL_LOCK_BACKOFF" envDefault:"500ms"`
}

// Storage provides the coordination primitives shared by every instance:
// atomic certificate records, challenge records, the best-effort issuance
// lock, and multiname (SAN) grouping. It holds no cached state; every
// operation is one or a bounded number of round trips to the store.
type Storage struct {
	store Store
	codec Codec
	log   *slog.Logger

	lockTTL     time.Duration
	lockWait    time.Duration
	lockBackoff time.Duration
}

// New creates a Storage from cfg, failing fast when either capability is
// absent.
func New(cfg Config, opts ...Option) (*Storage, error) {
	if cfg.Store == nil {
		return nil, ErrStoreRequired
	}
	if cfg.Codec == nil {
		return nil, ErrCodecRequired
	}

	s := &Storage{
		store:       cfg.Store,
		codec:       cfg.Codec,
		log:         slog.Default(),
		lockTTL:     cfg.LockTTL,
		lockWait:    cfg.LockWait,
		lockBackoff: cfg.LockBackoff,
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 30 * time.Second
	}
	if s.lockWait <= 0 {
		s.lockWait = 30 * time.Second
	}
	if s.lockBackoff <= 0 {
		s.lockBackoff = 500 * time.Millisecond
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}
