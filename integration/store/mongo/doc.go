// Package mongo provides a MongoDB-backed certstore.Store. Documents live in
// a single collection keyed by _id; expiry is carried in the document and an
// optional TTL index (EnsureIndexes) lets the server reap expired entries.
// Reads never depend on the reaper: a past-expiry document is absent.
package mongo
