// Package minio provides a blobstore.BlobStore backed by MinIO or any other
// S3-compatible server (Ceph, Garage, SeaweedFS).
//
//	store, err := minio.New(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "corpus", "run-42/")
//
// Reads use ranged GET requests. Writes are streamed through a pipe into a
// single PutObject call so that term vectors of unknown total size can be
// written without buffering.
package minio
