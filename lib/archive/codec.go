// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression stage of the pipeline. Codec names
// appear in configuration and unit manifests; changing them breaks
// manifest compatibility.
type Codec uint8

const (
	// CodecGzip is the default. Receivers that only understand
	// .tar.gz packages require it.
	CodecGzip Codec = 0

	// CodecZstd compresses at the default zstd level. Better ratio
	// and faster decode than gzip for source trees.
	CodecZstd Codec = 1

	// CodecLZ4 uses the LZ4 frame format. Fastest, lowest ratio.
	CodecLZ4 Codec = 2
)

// String returns the configuration name of a codec.
func (codec Codec) String() string {
	switch codec {
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", codec)
	}
}

// ParseCodec parses a codec from its configuration name. The empty
// string selects [CodecGzip].
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "gzip", "":
		return CodecGzip, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("unknown archive codec: %q", name)
	}
}

// Extension returns the conventional file suffix for archives written
// with this codec.
func (codec Codec) Extension() string {
	switch codec {
	case CodecZstd:
		return ".tar.zst"
	case CodecLZ4:
		return ".tar.lz4"
	default:
		return ".tar.gz"
	}
}

// DetectCodec infers the codec from an archive file name.
func DetectCodec(name string) (Codec, error) {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return CodecGzip, nil
	case strings.HasSuffix(name, ".tar.zst"):
		return CodecZstd, nil
	case strings.HasSuffix(name, ".tar.lz4"):
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("cannot infer archive codec from %q", name)
	}
}

// NewWriter returns the compression stage writing into w. Close
// flushes the codec's trailer but does not close w.
func (codec Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch codec {
	case CodecGzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported archive codec: %d", codec)
	}
}

// NewReader returns a decompressing reader over r.
func (codec Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch codec {
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return decoder.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported archive codec: %d", codec)
	}
}

// MarshalText encodes the codec as its configuration name.
func (codec Codec) MarshalText() ([]byte, error) {
	switch codec {
	case CodecGzip, CodecZstd, CodecLZ4:
		return []byte(codec.String()), nil
	default:
		return nil, fmt.Errorf("unsupported archive codec: %d", codec)
	}
}

// UnmarshalText decodes a configuration name.
func (codec *Codec) UnmarshalText(text []byte) error {
	parsed, err := ParseCodec(string(text))
	if err != nil {
		return err
	}
	*codec = parsed
	return nil
}
