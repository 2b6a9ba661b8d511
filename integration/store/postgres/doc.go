// Package postgres provides a Postgres-backed certstore.Store over a single
// key-value table (one row per key, expiry carried alongside the value).
//
// Postgres has no native key TTL, so expired rows are simply treated as
// absent on read; nothing in the adapter strengthens the core contract. Apply
// the embedded schema with Migrate before first use:
//
//	if err := postgres.Migrate(ctx, databaseURL); err != nil {
//		log.Fatal(err)
//	}
//
//	store, err := postgres.Connect(ctx, postgres.Config{ConnectionURL: databaseURL})
package postgres
