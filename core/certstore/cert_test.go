package certstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Energy1190/autossl/core/certstore"
)

func newTestStorage(t *testing.T, store certstore.Store) *certstore.Storage {
	t.Helper()

	storage, err := certstore.New(certstore.Config{
		Store: store,
		Codec: certstore.JSONCodec{},
	})
	require.NoError(t, err)
	return storage
}

func TestGetCertAbsent(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t, newMockStore())

	cert, err := storage.GetCert(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Nil(t, cert)
}

func TestSetGetCertRoundTrip(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	storage := newTestStorage(t, store)
	ctx := context.Background()

	want := certstore.Certificate{
		FullchainPEM: "chain-example",
		PrivkeyPEM:   "key-example",
		CertPEM:      "leaf-example",
		Expiry:       1767225600,
	}
	require.NoError(t, storage.SetCert(ctx, "example.com", want))

	// A write to another domain must not disturb the first record.
	require.NoError(t, storage.SetCert(ctx, "other.org", certstore.Certificate{
		FullchainPEM: "chain-other",
		PrivkeyPEM:   "key-other",
		CertPEM:      "leaf-other",
		Expiry:       1769904000,
	}))

	got, err := storage.GetCert(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// The record is one JSON blob under the domain's latest key.
	raw, ok := store.raw("example.com:latest")
	require.True(t, ok)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "chain-example", fields["fullchain_pem"])
	assert.Equal(t, "key-example", fields["privkey_pem"])
	assert.Equal(t, "leaf-example", fields["cert_pem"])
	assert.Equal(t, float64(1767225600), fields["expiry"])
}

func TestGetCertMalformed(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.put("example.com:latest", []byte("{not json"))
	storage := newTestStorage(t, store)

	cert, err := storage.GetCert(context.Background(), "example.com")
	require.ErrorIs(t, err, certstore.ErrMalformedRecord)
	assert.Nil(t, cert)
}

func TestGetCertStoreError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("backend down")
	store := newMockStore()
	store.getFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errBoom
	}
	storage := newTestStorage(t, store)

	cert, err := storage.GetCert(context.Background(), "example.com")
	require.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, certstore.ErrMalformedRecord)
	assert.Nil(t, cert)
}

func TestDeleteCert(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t, newMockStore())
	ctx := context.Background()

	require.NoError(t, storage.SetCert(ctx, "example.com", certstore.Certificate{CertPEM: "leaf"}))
	require.NoError(t, storage.DeleteCert(ctx, "example.com"))

	cert, err := storage.GetCert(ctx, "example.com")
	require.NoError(t, err)
	assert.Nil(t, cert)

	// Deleting an absent record is not an error.
	require.NoError(t, storage.DeleteCert(ctx, "example.com"))
}

func TestAllCertDomains(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	storage := newTestStorage(t, store)
	ctx := context.Background()

	require.NoError(t, storage.SetCert(ctx, "a.example.com", certstore.Certificate{CertPEM: "a"}))
	require.NoError(t, storage.SetCert(ctx, "b.example.com", certstore.Certificate{CertPEM: "b"}))

	// Records under other suffixes must not leak into the inventory.
	store.put("a.example.com:main", []byte(`{"domain":"a.example.com","subdomain":"a.example.com"}`))
	store.put("a.example.com:challenge:tok", []byte("auth"))

	domains, err := storage.AllCertDomains(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.example.com", "b.example.com"}, domains)
}

func TestAllCertDomainsScanError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("scan failed")
	store := newMockStore()
	store.keysFunc = func(ctx context.Context, suffix string) ([]string, error) {
		return nil, errBoom
	}
	storage := newTestStorage(t, store)

	domains, err := storage.AllCertDomains(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Nil(t, domains)
}
