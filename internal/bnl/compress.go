package bnl

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflate decodes a single zlib stream. A positive limit caps the inflated
// size; anything larger is treated as a decompression failure.
func inflate(data []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	defer zr.Close()

	var r io.Reader = zr
	if limit > 0 {
		r = io.LimitReader(zr, limit+1)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}

	if limit > 0 && int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: inflated body exceeds %d bytes", ErrDecompression, limit)
	}

	return out, nil
}

// deflate encodes data as a single zlib stream at the given level.
func deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("creating zlib writer (level %d): %w", level, err)
	}

	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("compressing body: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finishing zlib stream: %w", err)
	}

	return buf.Bytes(), nil
}
