// Package memory provides an in-process certstore.Store for tests and
// single-node deployments. It is safe for concurrent use; TTLs are honored
// lazily on read, matching the capability floor and nothing more.
package memory
