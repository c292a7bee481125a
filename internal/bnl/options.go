package bnl

import (
	"fmt"
	"log/slog"

	"github.com/klauspost/compress/zlib"
)

const (
	// DefaultCompressionLevel matches the level the game's own tools write with.
	DefaultCompressionLevel = zlib.BestSpeed

	// DefaultMaxInflatedSize caps the inflated body at 1 GiB.
	DefaultMaxInflatedSize int64 = 1 << 30
)

// Options configures container loading and serialization.
type Options struct {
	// CompressionLevel is the zlib level used by Bytes, from zlib.HuffmanOnly to zlib.BestCompression.
	CompressionLevel int

	// MaxInflatedSize caps the inflated body size. Zero or negative disables the cap.
	MaxInflatedSize int64

	// Logger receives debug traces. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options used when FromBytes is given nil.
func DefaultOptions() *Options {
	return &Options{
		CompressionLevel: DefaultCompressionLevel,
		MaxInflatedSize:  DefaultMaxInflatedSize,
	}
}

// Validate checks option ranges.
func (o *Options) Validate() error {
	if o.CompressionLevel < zlib.HuffmanOnly || o.CompressionLevel > zlib.BestCompression {
		return fmt.Errorf("compression level %d outside [%d, %d]",
			o.CompressionLevel, zlib.HuffmanOnly, zlib.BestCompression)
	}
	return nil
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
