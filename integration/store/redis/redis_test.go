package redis_test

import (
	"context"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Energy1190/autossl/core/certstore"
	"github.com/Energy1190/autossl/integration/store/redis"
)

// fakeClient backs the narrow Client interface with a plain map, returning
// go-redis command results the way a real client would.
type fakeClient struct {
	data    map[string]string
	ttls    map[string]time.Duration
	pingErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeClient) Get(ctx context.Context, key string) *goredis.StringCmd {
	value, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(value, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	var deleted int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			deleted++
		}
	}
	return goredis.NewIntResult(deleted, nil)
}

func (f *fakeClient) Scan(ctx context.Context, cursor uint64, match string, count int64) *goredis.ScanCmd {
	suffix := strings.TrimPrefix(match, "*")
	var keys []string
	for key := range f.data {
		if strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	return goredis.NewScanCmdResult(keys, 0, nil)
}

func (f *fakeClient) Ping(ctx context.Context) *goredis.StatusCmd {
	if f.pingErr != nil {
		return goredis.NewStatusResult("", f.pingErr)
	}
	return goredis.NewStatusResult("PONG", nil)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := redis.NewWithClient(client, 0)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, certstore.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "example.com:latest", []byte("payload"), 0))
	value, err := s.Get(ctx, "example.com:latest")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)

	require.NoError(t, s.Delete(ctx, "example.com:latest"))
	_, err = s.Get(ctx, "example.com:latest")
	assert.ErrorIs(t, err, certstore.ErrKeyNotFound)
}

func TestStoreSetPassesTTL(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := redis.NewWithClient(client, 0)

	require.NoError(t, s.Set(ctx, "example.com:issue_cert_lock", []byte("token"), 30*time.Second))
	assert.Equal(t, 30*time.Second, client.ttls["example.com:issue_cert_lock"])

	require.NoError(t, s.Set(ctx, "example.com:latest", []byte("cert"), 0))
	assert.Equal(t, time.Duration(0), client.ttls["example.com:latest"])
}

func TestStoreKeysWithSuffix(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	s := redis.NewWithClient(client, 0)

	require.NoError(t, s.Set(ctx, "x.com:latest", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "y.com:latest", []byte("2"), 0))
	require.NoError(t, s.Set(ctx, "x.com:main", []byte("3"), 0))

	keys, err := s.KeysWithSuffix(ctx, ":latest")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x.com:latest", "y.com:latest"}, keys)
}

func TestHealthcheck(t *testing.T) {
	client := newFakeClient()
	require.NoError(t, redis.Healthcheck(client)(context.Background()))

	client.pingErr = assert.AnError
	err := redis.Healthcheck(client)(context.Background())
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}
