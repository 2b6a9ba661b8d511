package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Energy1190/autossl/core/certstore"
)

// Compile-time check that Store implements the capability contract.
var _ certstore.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is an in-process implementation of certstore.Store. Expired entries
// are dropped lazily on access; there is no janitor goroutine.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, certstore.ErrKeyNotFound
	}
	if e.expired() {
		delete(s.data, key)
		return nil, certstore.ErrKeyNotFound
	}

	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) KeysWithSuffix(ctx context.Context, suffix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for key, e := range s.data {
		if e.expired() {
			delete(s.data, key)
			continue
		}
		if strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (e entry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}
