// Package storage wraps the MinIO client for the bucket holding roster exports.
//
// Operators export each school's roster spreadsheet as CSV and upload it here;
// the lessons feature reads it back as the external side of a comparison.
// The Client interface keeps the MinIO dependency mockable (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the roster bucket at startup.
//   - PutObject: Stores an uploaded roster export.
//   - GetObject: Streams a roster export.
//   - ListObjects: Lists the schools that have a roster export.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
