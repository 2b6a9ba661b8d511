// Package s3 provides an S3-backed certstore.Store for AWS S3 and
// S3-compatible services (MinIO, Wasabi). Each key maps to one object under a
// configurable prefix.
//
// S3 offers no per-object TTL, so records written with one carry their expiry
// as object metadata and are treated as absent (and best-effort deleted) once
// it passes. Lock self-healing therefore works the same as on TTL-native
// backends, enforced at read time.
//
//	store, err := s3.New(ctx, s3.Config{
//		Bucket: "certs",
//		Region: "eu-west-1",
//	})
package s3
