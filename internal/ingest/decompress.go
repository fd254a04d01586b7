// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     ingest
// Description: Input decompression for ingested log streams
// Author:      msto63
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	mdwerror "github.com/msto63/modlevel/pkg/core/error"
)

// Compression selects how an input stream is decoded
type Compression int

const (
	CompressionAuto Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// ParseCompression parses auto, none, gzip or zstd (case-insensitive)
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CompressionAuto, nil
	case "none", "plain":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	default:
		return CompressionAuto, mdwerror.New("unknown compression").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("ingest.ParseCompression").
			WithDetail("compression", s)
	}
}

// Decompress returns a reader yielding the decoded content of r. With
// CompressionAuto the format is detected from the leading magic bytes.
// Closing the returned reader does not close r.
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	if c == CompressionAuto {
		c = detect(br)
	}

	switch c {
	case CompressionNone:
		return io.NopCloser(br), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to open gzip stream").
				WithCode(mdwerror.CodeIOError).
				WithOperation("ingest.Decompress")
		}
		return zr, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to open zstd stream").
				WithCode(mdwerror.CodeIOError).
				WithOperation("ingest.Decompress")
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, mdwerror.New("unknown compression").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("ingest.Decompress").
			WithDetail("compression", c.String())
	}
}

// detect peeks at the stream head; short or unreadable input is plain
func detect(br *bufio.Reader) Compression {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	default:
		return CompressionNone
	}
}
