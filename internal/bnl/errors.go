package bnl

import (
	"errors"
	"fmt"
)

// Sentinel errors for BNL operations. Errors returned by this package wrap one
// of these, so callers should test with errors.Is.
var (
	// ErrTooSmall is returned when an input is shorter than its fixed minimum.
	ErrTooSmall = errors.New("bnl: input too small")

	// ErrMalformed is returned when a view list header is inconsistent.
	ErrMalformed = errors.New("bnl: malformed view list")

	// ErrTruncated is returned when a view list declares more views than the input holds.
	ErrTruncated = errors.New("bnl: view list truncated")

	// ErrOutOfBounds is returned when a byte view points outside its buffer.
	ErrOutOfBounds = errors.New("bnl: byte view out of bounds")

	// ErrSizeMismatch is returned when a write does not match the physical footprint.
	ErrSizeMismatch = errors.New("bnl: size mismatch")

	// ErrOffsetOutOfBounds is returned when a logical read starts past the end.
	ErrOffsetOutOfBounds = errors.New("bnl: offset out of bounds")

	// ErrSizeOutOfBounds is returned when a logical read runs past the end.
	ErrSizeOutOfBounds = errors.New("bnl: size out of bounds")

	// ErrUnknownAssetType is returned for asset type codes outside the known set.
	ErrUnknownAssetType = errors.New("bnl: unknown asset type")

	// ErrNotFound is returned when no record carries the requested name.
	ErrNotFound = errors.New("bnl: asset not found")

	// ErrTypeMismatch is returned when a record's type differs from the requested one.
	ErrTypeMismatch = errors.New("bnl: asset type mismatch")

	// ErrDescriptorGrowthUnsupported is returned when a descriptor would outgrow
	// its allocation in the descriptor section.
	ErrDescriptorGrowthUnsupported = errors.New("bnl: descriptor growth unsupported")

	// ErrDecompression is returned when the zlib body cannot be inflated.
	ErrDecompression = errors.New("bnl: decompression failed")

	// ErrSizeOverflow is returned when a serialized layout exceeds 32-bit offsets.
	ErrSizeOverflow = errors.New("bnl: size overflow")
)

// Stage names the step of container construction that failed.
type Stage string

const (
	StageHeader     Stage = "header"
	StageDecompress Stage = "decompress"
	StageSections   Stage = "sections"
	StageRecords    Stage = "records"
)

// LoadError is returned by FromBytes. It records the construction stage and
// unwraps to the underlying cause.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("bnl: loading %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Diagnostic describes a record skipped during a batch enumeration.
type Diagnostic struct {
	// Index is the record's row in the asset table.
	Index int
	Name  string
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("record %d (%s): %v", d.Index, d.Name, d.Err)
}
