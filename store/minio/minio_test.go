package minio

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/store"
)

// TestIntegration_MinioBackend requires a running MinIO instance.
// Skip if not available.
func TestIntegration_MinioBackend(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-distilgo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	backend := New(client, bucket, func(o *Options) {
		o.Prefix = "test-prefix/"
	})

	// Put and Get
	data := []byte("hello minio world")
	require.NoError(t, backend.Put(ctx, "blob.bin", data))

	got, err := backend.Get(ctx, "blob.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// List strips the prefix
	names, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "blob.bin")

	// Missing blobs map to store.ErrNotFound
	_, err = backend.Get(ctx, "nonexistent")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Delete is idempotent
	require.NoError(t, backend.Delete(ctx, "blob.bin"))
	require.NoError(t, backend.Delete(ctx, "blob.bin"))

	_, err = backend.Get(ctx, "blob.bin")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Full store round-trip on the backend
	st, err := store.New(backend)
	require.NoError(t, err)

	want := palette.Palette{
		{Color: colorspace.RGB{R: 255}, Weight: 100},
		{Color: colorspace.RGB{B: 255}, Weight: 50},
	}
	require.NoError(t, st.Save(ctx, "sunset", want))

	gotPalette, err := st.Load(ctx, "sunset")
	require.NoError(t, err)
	assert.Equal(t, want, gotPalette)

	matches := st.FindSimilar(colorspace.RGB{R: 255}, 5)
	require.Len(t, matches, 1)
	assert.Equal(t, "sunset", matches[0].Name)

	// Cleanup
	_ = st.Delete(ctx, "sunset")
}
