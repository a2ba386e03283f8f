// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("runs/2024-06/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	terms, stats, err := semvec.BuildFromBlob(ctx, cfg, idx, store)
//
// # Features
//
//   - Range reads for streaming document vectors
//   - Multipart uploads with CRC32C checksums for term vector output
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
