// Package bnltest builds synthetic BNL files for tests. It encodes the format
// independently of package bnl so that bnl's own tests can use it.
package bnltest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

const (
	headerSize = 40
	recordSize = 160
	nameSize   = 128
)

// Section indexes, in on-disk header order.
const (
	Records = iota
	ViewLists
	Resources
	Descriptors
)

// Sections holds the four section buffers in header order.
type Sections [4][]byte

// Asset describes one record to build.
type Asset struct {
	Name       string
	Type       uint32
	UnknownA   uint32
	UnknownB   uint32
	ChunkCount uint32
	Descriptor []byte

	// Chunks are written to the raw buffer separated by Gap filler bytes, so
	// the resource is physically fragmented. No chunks means no resource.
	Chunks [][]byte
}

// File describes a whole container.
type File struct {
	// FileCount defaults to len(Assets) when zero.
	FileCount uint16
	Flags     uint8
	Assets    []Asset

	// Gap is the number of 0xEE filler bytes written before every chunk.
	Gap int

	// Order lists section indexes in the order they appear in the body.
	// Empty means header order.
	Order []int
}

// Sections encodes the four section buffers.
func (f File) Sections() Sections {
	var records, views, resources, descriptors bytes.Buffer

	for _, a := range f.Assets {
		descPtr := descriptors.Len()
		descriptors.Write(a.Descriptor)

		viewPtr := views.Len()
		resourceSize := 0
		if len(a.Chunks) > 0 {
			pairs := make([][2]uint32, len(a.Chunks))
			for i, chunk := range a.Chunks {
				resources.Write(bytes.Repeat([]byte{0xEE}, f.Gap))
				pairs[i] = [2]uint32{uint32(resources.Len()), uint32(len(chunk))}
				resources.Write(chunk)
				resourceSize += len(chunk)
			}
			views.Write(ViewList(pairs...))
		}

		records.Write(Record(RecordFields{
			Name:           a.Name,
			Type:           a.Type,
			UnknownA:       a.UnknownA,
			UnknownB:       a.UnknownB,
			ChunkCount:     a.ChunkCount,
			DescriptorPtr:  uint32(descPtr),
			DescriptorSize: uint32(len(a.Descriptor)),
			ViewListPtr:    uint32(viewPtr),
			ResourceSize:   uint32(resourceSize),
		}))
	}

	return Sections{records.Bytes(), views.Bytes(), resources.Bytes(), descriptors.Bytes()}
}

// Bytes encodes the complete file.
func (f File) Bytes(tb testing.TB) []byte {
	tb.Helper()

	count := f.FileCount
	if count == 0 {
		count = uint16(len(f.Assets))
	}
	return Pack(tb, count, f.Flags, f.Sections(), f.Order...)
}

// Pack assembles a file from raw sections. order lists the section indexes in
// body order; the header views are computed to match.
func Pack(tb testing.TB, fileCount uint16, flags uint8, s Sections, order ...int) []byte {
	tb.Helper()

	if len(order) == 0 {
		order = []int{Records, ViewLists, Resources, Descriptors}
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint16(header[0:2], fileCount)
	header[2] = flags

	var body bytes.Buffer
	for _, idx := range order {
		p := 8 + idx*8
		binary.LittleEndian.PutUint32(header[p:p+4], uint32(headerSize+body.Len()))
		binary.LittleEndian.PutUint32(header[p+4:p+8], uint32(len(s[idx])))
		body.Write(s[idx])
	}

	return append(header, Deflate(tb, body.Bytes())...)
}

// Deflate compresses data as one zlib stream.
func Deflate(tb testing.TB, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, zw.Close())
	return buf.Bytes()
}

// RecordFields are the raw fields of one asset record.
type RecordFields struct {
	Name           string
	Type           uint32
	UnknownA       uint32
	UnknownB       uint32
	ChunkCount     uint32
	DescriptorPtr  uint32
	DescriptorSize uint32
	ViewListPtr    uint32
	ResourceSize   uint32
}

// Record encodes one 160-byte asset record.
func Record(f RecordFields) []byte {
	b := make([]byte, recordSize)
	copy(b[:nameSize], f.Name)

	fields := []uint32{
		f.Type, f.UnknownA, f.UnknownB, f.ChunkCount,
		f.DescriptorPtr, f.DescriptorSize, f.ViewListPtr, f.ResourceSize,
	}
	for i, v := range fields {
		binary.LittleEndian.PutUint32(b[nameSize+i*4:], v)
	}
	return b
}

// ViewList encodes a well-formed view list from (offset, size) pairs.
func ViewList(views ...[2]uint32) []byte {
	b := make([]byte, 8+8*len(views))
	binary.LittleEndian.PutUint32(b[0:4], uint32(len(b)))
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(views)))
	for i, v := range views {
		binary.LittleEndian.PutUint32(b[8+i*8:], v[0])
		binary.LittleEndian.PutUint32(b[12+i*8:], v[1])
	}
	return b
}

// Sequence returns n bytes where byte i is i mod 256.
func Sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
