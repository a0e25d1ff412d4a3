package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/store"
)

func TestIntegration_S3Backend(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg)

	// Create a unique prefix for this test run
	prefix := fmt.Sprintf("test-distilgo-%d/", time.Now().UnixNano())
	backend := NewFromClient(client, bucket, func(o *Options) {
		o.Prefix = prefix
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		data := []byte("hello s3 world")
		require.NoError(t, backend.Put(ctx, "blob.bin", data))

		got, err := backend.Get(ctx, "blob.bin")
		require.NoError(t, err)
		assert.Equal(t, data, got)

		names, err := backend.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "blob.bin")

		require.NoError(t, backend.Delete(ctx, "blob.bin"))

		_, err = backend.Get(ctx, "blob.bin")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := backend.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("StoreRoundTrip", func(t *testing.T) {
		st, err := store.New(backend)
		require.NoError(t, err)

		want := palette.Palette{
			{Color: colorspace.RGB{R: 255}, Weight: 100},
			{Color: colorspace.RGB{B: 255}, Weight: 50},
		}
		require.NoError(t, st.Save(ctx, "sunset", want))

		got, err := st.Load(ctx, "sunset")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// Clean up
		require.NoError(t, st.Delete(ctx, "sunset"))
	})
}
