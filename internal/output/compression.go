package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names the stream encoding applied to an output file.
type Compression string

const (
	// CompressionNone writes the payload as is.
	CompressionNone Compression = "none"
	// CompressionZstd wraps the payload in a zstd frame.
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 wraps the payload in an lz4 frame.
	CompressionLZ4 Compression = "lz4"
)

// ParseCompression resolves a compression name; the empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("output: unsupported compression %q", name)
	}
}

// Extension returns the conventional file suffix for c.
func (c Compression) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	}
	return ""
}

func (c Compression) encoder(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionNone, "":
		return nil, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("output: zstd encoder: %w", err)
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("output: unsupported compression %q", string(c))
}

// NewReader returns a reader that undoes c over r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("output: zstd decoder: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, fmt.Errorf("output: unsupported compression %q", string(c))
}
