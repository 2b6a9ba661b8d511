package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Energy1190/autossl/core/certstore"
	"github.com/Energy1190/autossl/integration/store/memory"
)

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, certstore.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "a", []byte("one"), 0))
	value, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)

	// Overwrite replaces the value.
	require.NoError(t, s.Set(ctx, "a", []byte("two"), 0))
	value, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)
}

func TestStoreValueIsolation(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	in := []byte("payload")
	require.NoError(t, s.Set(ctx, "a", in, 0))
	in[0] = 'X' // caller mutation must not leak into the store

	value, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)

	value[0] = 'Y' // reader mutation must not leak either
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), again)
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.Set(ctx, "ephemeral", []byte("x"), 10*time.Millisecond))

	value, err := s.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), value)

	time.Sleep(20 * time.Millisecond)

	_, err = s.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, certstore.ErrKeyNotFound)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.Set(ctx, "a", []byte("one"), 0))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, certstore.ErrKeyNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, s.Delete(ctx, "a"))
}

func TestStoreKeysWithSuffix(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.Set(ctx, "x.com:latest", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "y.com:latest", []byte("2"), 0))
	require.NoError(t, s.Set(ctx, "x.com:main", []byte("3"), 0))
	require.NoError(t, s.Set(ctx, "gone.com:latest", []byte("4"), 5*time.Millisecond))

	time.Sleep(10 * time.Millisecond)

	keys, err := s.KeysWithSuffix(ctx, ":latest")
	require.NoError(t, err)
	assert.Equal(t, []string{"x.com:latest", "y.com:latest"}, keys)
}
