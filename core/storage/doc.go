// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so snapshots and rule files can be read from, and
// reports published to, AWS S3 or a self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the compare bucket.
//   - GetObject: read a snapshot or rules object.
//   - PutObject: publish a report or create a folder marker.
//   - ListObjects: check the bucket layout.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "compare")
package storage
