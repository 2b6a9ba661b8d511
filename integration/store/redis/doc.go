// Package redis provides a Redis-backed certstore.Store.
//
// Redis is the natural backend for the coordination store: it covers the
// required capability floor natively (per-key TTL for lock expiry, SCAN for
// suffix enumeration) and is already shared infrastructure in most fleets.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//
//	store, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	storage, err := certstore.New(certstore.Config{
//		Store: store,
//		Codec: certstore.JSONCodec{},
//	})
//
// Both redis:// and rediss:// (TLS) connection URLs are supported. Connect
// verifies connectivity with a ping before returning; Healthcheck exposes the
// same check for readiness probes.
package redis
