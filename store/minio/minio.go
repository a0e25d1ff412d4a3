// Package minio provides a MinIO backend for the palette store. It works
// against MinIO and other S3-compatible object stores.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/distilgo/store"
)

// Options configure the MinIO backend.
type Options struct {
	// Prefix is prepended to all object keys (e.g. "palettes/").
	Prefix string
}

// Backend implements store.Backend on a MinIO bucket.
type Backend struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ store.Backend = (*Backend)(nil)

// New creates a MinIO backend on an existing client.
func New(client *minio.Client, bucket string, optFns ...func(o *Options)) *Backend {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Backend{
		client: client,
		bucket: bucket,
		prefix: opts.Prefix,
	}
}

func (b *Backend) key(name string) string {
	return path.Join(b.prefix, name)
}

func (b *Backend) Put(ctx context.Context, name string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, b.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", name, err)
	}

	return nil
}

func (b *Backend) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get %s: %w", name, err)
	}
	defer obj.Close()

	// GetObject is lazy; missing keys surface on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, fmt.Errorf("minio: get %s: %w", name, store.ErrNotFound)
		}

		return nil, fmt.Errorf("minio: get %s: %w", name, err)
	}

	return data, nil
}

// Delete removes an object. Deleting a missing object succeeds.
func (b *Backend) Delete(ctx context.Context, name string) error {
	err := b.client.RemoveObject(ctx, b.bucket, b.key(name), minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil
		}

		return fmt.Errorf("minio: delete %s: %w", name, err)
	}

	return nil
}

func (b *Backend) List(ctx context.Context) ([]string, error) {
	var names []string

	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    b.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio: list: %w", obj.Err)
		}

		name := strings.TrimPrefix(strings.TrimPrefix(obj.Key, b.prefix), "/")
		if name == "" {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}
