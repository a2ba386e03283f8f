package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/semvec/blobstore"
	"github.com/hupe1980/semvec/blobstore/minio"
	"github.com/hupe1980/semvec/blobstore/s3"
)

// location is a blob addressed by a path or URL.
type location struct {
	store blobstore.BlobStore
	name  string
}

// resolve maps a file option to a blob store and a blob name.
//
//	s3://bucket/key      AWS S3, default credential chain, AWS_REGION
//	minio://bucket/key   MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_SECURE
//	anything else        local file
func resolve(ctx context.Context, loc string) (location, error) {
	scheme, rest, ok := strings.Cut(loc, "://")
	if !ok {
		abs, err := filepath.Abs(loc)
		if err != nil {
			return location{}, err
		}
		return location{
			store: blobstore.NewLocalStore(filepath.Dir(abs)),
			name:  filepath.Base(abs),
		}, nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return location{}, fmt.Errorf("%s: expected %s://bucket/key", loc, scheme)
	}
	prefix, name := path.Split(key)

	switch scheme {
	case "s3":
		var opts []s3.Option
		if region := os.Getenv("AWS_REGION"); region != "" {
			opts = append(opts, s3.WithRegion(region))
		}
		opts = append(opts, s3.WithPrefix(prefix))
		store, err := s3.New(ctx, bucket, opts...)
		if err != nil {
			return location{}, err
		}
		return location{store: store, name: name}, nil
	case "minio":
		store, err := minio.New(ctx, minio.Config{
			Endpoint:  envOr("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Region:    os.Getenv("MINIO_REGION"),
			Secure:    os.Getenv("MINIO_SECURE") == "true",
		}, bucket, prefix)
		if err != nil {
			return location{}, err
		}
		return location{store: store, name: name}, nil
	default:
		return location{}, fmt.Errorf("%s: unsupported scheme %q", loc, scheme)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
