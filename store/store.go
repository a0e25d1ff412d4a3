package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/distilgo/codec"
	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/distance"
	"github.com/hupe1980/distilgo/palette"
)

// ErrNotFound is returned when no palette is stored under the requested name.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

var (
	// ErrInvalidFormat is returned when a blob is not a valid palette envelope.
	ErrInvalidFormat = errors.New("invalid palette blob")

	// ErrUnknownCodec is returned when a blob was written with a codec that is
	// not registered in this build.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrUnknownCompression is returned when a blob uses a compression scheme
	// this build does not support.
	ErrUnknownCompression = errors.New("unknown compression")
)

// Backend persists palette blobs under unique names.
//
// Implementations must be safe for concurrent use. Get returns ErrNotFound
// for missing names; Delete is a no-op for missing names.
type Backend interface {
	// Put stores a blob under name, replacing any previous blob.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the blob stored under name.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes the blob stored under name.
	Delete(ctx context.Context, name string) error
	// List returns all stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}

// Envelope layout: [magic "DGP1"][codec name length uint8][codec name][compression uint8][block]
// The header makes blobs self-describing, so a store configured with one
// codec or compression can still load blobs written with another.
var blobMagic = []byte("DGP1")

// Options configure a palette store.
type Options struct {
	// Codec encodes palettes before compression.
	Codec codec.Codec

	// Compression applied to encoded palettes.
	Compression Compression

	// Metric used by FindSimilar.
	Metric distance.Metric
}

// Store persists named palettes on a Backend and answers similarity lookups
// against an in-memory color index.
//
// The index covers palettes written through Save in this process; call
// Rebuild after attaching to a backend that already holds palettes. Store is
// safe for concurrent use as long as the Backend is.
type Store struct {
	backend Backend
	opts    Options
	dist    distance.Func
	index   *colorIndex
}

// New creates a palette store on top of a backend.
func New(backend Backend, optFns ...func(o *Options)) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("store: backend must not be nil")
	}

	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionZSTD,
		Metric:      distance.MetricCIEDE2000,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	switch opts.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("store: %w: %d", ErrUnknownCompression, uint8(opts.Compression))
	}

	if n := len(opts.Codec.Name()); n == 0 || n > 255 {
		return nil, fmt.Errorf("store: invalid codec name %q", opts.Codec.Name())
	}

	dist, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	return &Store{
		backend: backend,
		opts:    opts,
		dist:    dist,
		index:   newColorIndex(),
	}, nil
}

// Save persists a palette under name and indexes its colors for FindSimilar.
// An existing palette with the same name is replaced.
func (s *Store) Save(ctx context.Context, name string, p palette.Palette) error {
	if name == "" {
		return fmt.Errorf("store: name must not be empty")
	}

	data, err := s.opts.Codec.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", name, err)
	}

	block, err := compressBlock(data, s.opts.Compression)
	if err != nil {
		return fmt.Errorf("store: compress %s: %w", name, err)
	}

	codecName := s.opts.Codec.Name()

	blob := make([]byte, 0, len(blobMagic)+1+len(codecName)+1+len(block))
	blob = append(blob, blobMagic...)
	blob = append(blob, uint8(len(codecName)))
	blob = append(blob, codecName...)
	blob = append(blob, uint8(s.opts.Compression))
	blob = append(blob, block...)

	if err := s.backend.Put(ctx, name, blob); err != nil {
		return fmt.Errorf("store: put %s: %w", name, err)
	}

	s.index.put(name, p)

	return nil
}

// Load reads the palette stored under name. The blob header decides the codec
// and compression, so Load understands blobs written with other settings.
func (s *Store) Load(ctx context.Context, name string) (palette.Palette, error) {
	blob, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	return decodeBlob(blob)
}

func decodeBlob(blob []byte) (palette.Palette, error) {
	if len(blob) < len(blobMagic)+2 {
		return nil, fmt.Errorf("%w: truncated header (%d bytes)", ErrInvalidFormat, len(blob))
	}

	if !bytes.Equal(blob[:len(blobMagic)], blobMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}

	rest := blob[len(blobMagic):]

	nameLen := int(rest[0])
	rest = rest[1:]

	if len(rest) < nameLen+1 {
		return nil, fmt.Errorf("%w: truncated codec name", ErrInvalidFormat)
	}

	codecName := string(rest[:nameLen])
	rest = rest[nameLen:]

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	compression := Compression(rest[0])
	rest = rest[1:]

	switch compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(compression))
	}

	data, err := decompressBlock(rest, compression)
	if err != nil {
		return nil, err
	}

	var p palette.Palette
	if err := c.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return p, nil
}

// Delete removes the palette stored under name and drops it from the index.
// Deleting a missing palette is a no-op.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.backend.Delete(ctx, name); err != nil {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}

	s.index.remove(name)

	return nil
}

// List returns the names of all stored palettes in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.backend.List(ctx)
}

// FindSimilar returns, for every indexed palette with at least one color
// within maxDistance of c, that palette's closest such color. Matches are
// ordered by ascending distance, ties by name.
//
// The lookup scans only the color-space cells around c, widening with
// maxDistance; colors just outside the scanned cells can be missed near the
// window boundary.
func (s *Store) FindSimilar(c colorspace.RGB, maxDistance float64) []Match {
	return s.index.find(c, maxDistance, s.dist)
}

// Rebuild replaces the color index with the palettes currently stored on the
// backend. It fails on the first palette that cannot be loaded, leaving the
// index partially rebuilt; run it again after fixing the blob.
func (s *Store) Rebuild(ctx context.Context) error {
	names, err := s.backend.List(ctx)
	if err != nil {
		return fmt.Errorf("store: rebuild: %w", err)
	}

	s.index.reset()

	for _, name := range names {
		p, err := s.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("store: rebuild %s: %w", name, err)
		}

		s.index.put(name, p)
	}

	return nil
}

// Indexed returns the number of palettes currently in the color index.
func (s *Store) Indexed() int {
	return s.index.size()
}
