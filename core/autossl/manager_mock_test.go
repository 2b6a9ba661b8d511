package autossl_test

import (
	"context"
	"sync"
	"time"

	"github.com/Energy1190/autossl/core/certstore"
)

// mockIssuer records Issue calls and hands out synthetic certificates. The
// default certificate expires well outside any renew window.
type mockIssuer struct {
	mu         sync.Mutex
	calls      int
	lastIssued []string

	issueFunc func(ctx context.Context, domains []string) (*certstore.Certificate, error)
}

func (m *mockIssuer) Issue(ctx context.Context, domains []string) (*certstore.Certificate, error) {
	m.mu.Lock()
	m.calls++
	m.lastIssued = append([]string(nil), domains...)
	fn := m.issueFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, domains)
	}
	return &certstore.Certificate{
		FullchainPEM: "chain-" + domains[0],
		PrivkeyPEM:   "key-" + domains[0],
		CertPEM:      "leaf-" + domains[0],
		Expiry:       time.Now().Add(90 * 24 * time.Hour).Unix(),
	}, nil
}

func (m *mockIssuer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockIssuer) issuedDomains() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lastIssued...)
}
