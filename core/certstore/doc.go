// Package certstore coordinates automatic TLS certificate issuance state
// across server instances that share a pluggable key-value store.
//
// It provides four tightly-coupled pieces: atomic certificate records (the
// public chain and private key can never be observed out of sync), ephemeral
// ACME challenge records, a cross-instance best-effort issuance lock built
// from nothing but get/set-with-expiry/delete, and a multiname (SAN) grouping
// index that consolidates several domains under one certificate within CA
// limits.
//
// # Capability floor
//
// The only thing required of a backend is the Store interface: single-key
// get, set with optional TTL, delete, and suffix enumeration. No
// compare-and-swap, transactions, or multi-key atomicity are assumed, and the
// resulting races (concurrent lock acquisition, concurrent group appends) are
// accepted and documented rather than hidden. This keeps the package usable
// against arbitrarily simple backends; see the integration/store tree for
// ready-made ones.
//
// # Types
//
//   - Storage: all coordination operations, constructed from Config
//   - Store: the backend capability contract
//   - Codec: record serialization contract (JSONCodec by default)
//   - Certificate: the atomic four-field certificate record
//
// # Errors
//
// Reads keep three outcomes distinct everywhere: absence (a normal non-error
// result), ErrMalformedRecord (stored bytes did not parse), and backend
// failures (propagated wrapped). Lock releases additionally distinguish
// ErrLockMismatch from ErrLockNotHeld.
//
// # Basic Usage
//
//	store := memory.New()
//
//	storage, err := certstore.New(certstore.Config{
//		Store: store,
//		Codec: certstore.JSONCodec{},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//
//	token, err := storage.AcquireIssueLock(ctx, "example.com")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() { _ = storage.ReleaseIssueLock(ctx, "example.com", token) }()
//
//	// ... obtain a certificate via the ACME collaborator ...
//
//	err = storage.SetCert(ctx, "example.com", certstore.Certificate{
//		FullchainPEM: fullchain,
//		PrivkeyPEM:   privkey,
//		CertPEM:      leaf,
//		Expiry:       notAfter.Unix(),
//	})
//
// # Multiname groups
//
// Several domains can share one physical certificate. A group is keyed by its
// primary domain and holds a colon-delimited ordered member list:
//
//	_ = storage.CreateMultiname(ctx, "alpha.com")
//	_ = storage.UpdateMultiname(ctx, "alpha.com", "beta.com")
//
//	primary, _ := storage.CheckMultiname(ctx, "beta.com") // "alpha.com"
//
// Group mutations are whole-record rewrites. Hold the advisory multiname lock
// around any read-modify-write sequence; the package exposes the primitives
// (SetMultinameLock, GetMultinameLock, DeleteMultinameLock) but does not
// acquire them for you.
package certstore
