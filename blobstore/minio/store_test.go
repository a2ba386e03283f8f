package minio

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/semvec/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newTestStore connects to MINIO_ENDPOINT (default localhost:9000) and skips
// the test when no server answers.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	client, err := minio.New(env("MINIO_ENDPOINT", "localhost:9000"), &minio.Options{
		Creds:  credentials.NewStaticV4(env("MINIO_ACCESS_KEY", "minioadmin"), env("MINIO_SECRET_KEY", "minioadmin"), ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-semvec"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	prefix := "it-" + time.Now().Format("20060102150405.000000") + "/"
	return NewStore(client, bucket, prefix)
}

func TestStore_Integration(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := []byte("semantic vectors over minio")
	require.NoError(t, blobstore.Put(ctx, store, "docvectors.bin", data))

	b, err := store.Open(ctx, "docvectors.bin")
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, int64(len(data)), b.Size())

	buf := make([]byte, 7)
	n, err := b.ReadAt(ctx, buf, 9)
	require.NoError(t, err)
	assert.Equal(t, "vectors", string(buf[:n]))

	n, err = b.ReadAt(ctx, make([]byte, 32), 22)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)

	rc, err := blobstore.NewReader(ctx, b)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data, got)

	require.NoError(t, store.PutBytes(ctx, "other.bin", []byte("x")))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"docvectors.bin", "other.bin"}, names)

	require.NoError(t, store.Delete(ctx, "docvectors.bin"))
	require.NoError(t, store.Delete(ctx, "other.bin"))
	require.NoError(t, store.Delete(ctx, "other.bin"))

	_, err = store.Open(ctx, "docvectors.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_StreamingCreate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("0123456789abcdef"), 4096)

	wb, err := store.Create(ctx, "termvectors.bin")
	require.NoError(t, err)
	for off := 0; off < len(payload); off += 1000 {
		_, err := wb.Write(payload[off:min(off+1000, len(payload))])
		require.NoError(t, err)
	}
	require.NoError(t, wb.Close())

	got, err := blobstore.ReadAll(ctx, store, "termvectors.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	require.NoError(t, store.Delete(ctx, "termvectors.bin"))
}
