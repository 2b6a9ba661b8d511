package certstore_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Energy1190/autossl/core/certstore"
)

// mockStore is a test implementation of certstore.Store backed by a map.
// Individual operations can be overridden to inject failures.
type mockStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	getFunc    func(ctx context.Context, key string) ([]byte, error)
	setFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFunc func(ctx context.Context, key string) error
	keysFunc   func(ctx context.Context, suffix string) ([]string, error)
}

func newMockStore() *mockStore {
	return &mockStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}

	value, ok := m.data[key]
	if !ok {
		return nil, certstore.ErrKeyNotFound
	}
	return value, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}

	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}

	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func (m *mockStore) KeysWithSuffix(ctx context.Context, suffix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keysFunc != nil {
		return m.keysFunc(ctx, suffix)
	}

	var keys []string
	for key := range m.data {
		if strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// put writes directly into the map, bypassing any override.
func (m *mockStore) put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// raw reads directly from the map, bypassing any override.
func (m *mockStore) raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok
}

// ttl reports the expiry the last Set carried for key.
func (m *mockStore) ttl(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}
