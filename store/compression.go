package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the compression applied to a palette blob.
type Compression uint8

const (
	// CompressionNone stores blobs uncompressed.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression (fast, moderate ratio).
	CompressionLZ4
	// CompressionZSTD uses Zstandard compression (better ratio, good for cold data).
	CompressionZSTD
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Block format: [UncompressedSize uint32 LE][CompressedSize uint32 LE][data]
// CompressedSize == 0 means the data is stored uncompressed.
const blockHeaderSize = 8

// zstdEncoderPool reuses zstd encoders, which are expensive to create.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("store: failed to create zstd encoder: %v", err))
		}
		return enc
	},
}

// zstdDecoderPool reuses zstd decoders.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(fmt.Sprintf("store: failed to create zstd decoder: %v", err))
		}
		return dec
	},
}

func getZstdEncoder() *zstd.Encoder {
	return zstdEncoderPool.Get().(*zstd.Encoder)
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	return zstdDecoderPool.Get().(*zstd.Decoder)
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBlock frames data into a self-describing block. If compression
// does not shrink the payload below 90% of its original size, the block
// stores the raw bytes instead.
func compressBlock(data []byte, compression Compression) ([]byte, error) {
	var compressed []byte

	switch compression {
	case CompressionNone:
		// Stored raw below.
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n > 0 {
			compressed = buf[:n]
		}
		// n == 0 means incompressible; stored raw below.
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(compression))
	}

	if compressed != nil && len(compressed) < len(data)*9/10 {
		block := make([]byte, blockHeaderSize+len(compressed))
		binary.LittleEndian.PutUint32(block[0:4], uint32(len(data)))
		binary.LittleEndian.PutUint32(block[4:8], uint32(len(compressed)))
		copy(block[blockHeaderSize:], compressed)

		return block, nil
	}

	block := make([]byte, blockHeaderSize+len(data))
	binary.LittleEndian.PutUint32(block[0:4], uint32(len(data)))
	binary.LittleEndian.PutUint32(block[4:8], 0)
	copy(block[blockHeaderSize:], data)

	return block, nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(block []byte, compression Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block too short (%d bytes)", ErrInvalidFormat, len(block))
	}

	rawSize := binary.LittleEndian.Uint32(block[0:4])
	compSize := binary.LittleEndian.Uint32(block[4:8])
	payload := block[blockHeaderSize:]

	if compSize == 0 {
		if uint32(len(payload)) != rawSize {
			return nil, fmt.Errorf("%w: stored size mismatch (want %d, got %d)", ErrInvalidFormat, rawSize, len(payload))
		}

		out := make([]byte, rawSize)
		copy(out, payload)

		return out, nil
	}

	if uint32(len(payload)) != compSize {
		return nil, fmt.Errorf("%w: compressed size mismatch (want %d, got %d)", ErrInvalidFormat, compSize, len(payload))
	}

	switch compression {
	case CompressionNone:
		return nil, fmt.Errorf("%w: compressed payload in uncompressed blob", ErrInvalidFormat)
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch (want %d, got %d)", ErrInvalidFormat, rawSize, n)
		}

		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(payload, nil)
		putZstdDecoder(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if uint32(len(out)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch (want %d, got %d)", ErrInvalidFormat, rawSize, len(out))
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(compression))
	}
}
