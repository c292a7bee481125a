package bnl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

const (
	// RecordSize is the on-disk size of one asset record.
	RecordSize = 160

	// NameSize is the width of the NUL-padded name field.
	NameSize = 128
)

// recordLayout is the on-disk shape of an asset record, little-endian.
type recordLayout struct {
	Name           [NameSize]byte
	AssetType      uint32
	UnknownA       uint32
	UnknownB       uint32
	ChunkCount     uint32
	DescriptorPtr  uint32
	DescriptorSize uint32
	ViewListPtr    uint32
	ResourceSize   uint32
}

// AssetRecord is one row of the asset table. It names an asset and points at
// its descriptor bytes and its view list.
type AssetRecord struct {
	// Index is the row position in the table. Rewrites go to Index*RecordSize.
	Index int

	RawName [NameSize]byte
	Type    AssetType

	// UnknownA, UnknownB and ChunkCount are not interpreted, only preserved.
	UnknownA   uint32
	UnknownB   uint32
	ChunkCount uint32

	// DescriptorPtr and DescriptorSize locate the descriptor in the descriptor section.
	DescriptorPtr  uint32
	DescriptorSize uint32

	// ViewListPtr is the byte offset of the record's view list in the view-list section.
	ViewListPtr uint32

	// ResourceSize is the total logical resource size. Zero means descriptor only.
	ResourceSize uint32
}

// ParseRecord decodes a single RecordSize-byte row.
func ParseRecord(data []byte) (AssetRecord, error) {
	if len(data) < RecordSize {
		return AssetRecord{}, fmt.Errorf("%w: record needs %d bytes, got %d", ErrTooSmall, RecordSize, len(data))
	}

	var raw recordLayout
	if _, err := binary.Decode(data[:RecordSize], binary.LittleEndian, &raw); err != nil {
		return AssetRecord{}, fmt.Errorf("decoding record: %w", err)
	}

	assetType, err := ParseAssetType(raw.AssetType)
	if err != nil {
		return AssetRecord{}, err
	}

	return AssetRecord{
		RawName:        raw.Name,
		Type:           assetType,
		UnknownA:       raw.UnknownA,
		UnknownB:       raw.UnknownB,
		ChunkCount:     raw.ChunkCount,
		DescriptorPtr:  raw.DescriptorPtr,
		DescriptorSize: raw.DescriptorSize,
		ViewListPtr:    raw.ViewListPtr,
		ResourceSize:   raw.ResourceSize,
	}, nil
}

// ParseRecordTable decodes len(data)/RecordSize rows in order. A trailing
// partial row is ignored. A bad type code in any row fails the whole table.
func ParseRecordTable(data []byte) ([]AssetRecord, error) {
	count := len(data) / RecordSize
	records := make([]AssetRecord, count)

	for i := range count {
		rec, err := ParseRecord(data[i*RecordSize : (i+1)*RecordSize])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rec.Index = i
		records[i] = rec
	}

	return records, nil
}

// Bytes encodes the record into RecordSize bytes. Index is not serialized.
func (r AssetRecord) Bytes() []byte {
	raw := recordLayout{
		Name:           r.RawName,
		AssetType:      uint32(r.Type),
		UnknownA:       r.UnknownA,
		UnknownB:       r.UnknownB,
		ChunkCount:     r.ChunkCount,
		DescriptorPtr:  r.DescriptorPtr,
		DescriptorSize: r.DescriptorSize,
		ViewListPtr:    r.ViewListPtr,
		ResourceSize:   r.ResourceSize,
	}

	b := make([]byte, RecordSize)
	if _, err := binary.Encode(b, binary.LittleEndian, &raw); err != nil {
		panic(fmt.Sprintf("bnl: encoding record: %v", err))
	}
	return b
}

// Name returns the record name up to the first NUL. A name field that is not
// valid UTF-8 yields "".
func (r AssetRecord) Name() string {
	if !utf8.Valid(r.RawName[:]) {
		return ""
	}
	name, _, _ := bytes.Cut(r.RawName[:], []byte{0})
	return string(name)
}

// SetName stores name NUL-padded into the fixed field. Names longer than
// NameSize are rejected.
func (r *AssetRecord) SetName(name string) error {
	if len(name) > NameSize {
		return fmt.Errorf("name %q is %d bytes, limit is %d", name, len(name), NameSize)
	}
	r.RawName = [NameSize]byte{}
	copy(r.RawName[:], name)
	return nil
}

// HasResource reports whether the record carries resource data.
func (r AssetRecord) HasResource() bool {
	return r.ResourceSize > 0
}

// DescriptorView returns the descriptor location as a ByteView.
func (r AssetRecord) DescriptorView() ByteView {
	return ByteView{Offset: r.DescriptorPtr, Size: r.DescriptorSize}
}

// overlapsDescriptor reports whether [start, end) intersects the record's
// descriptor range, using half-open intervals. Empty ranges overlap nothing.
func (r AssetRecord) overlapsDescriptor(start, end uint64) bool {
	view := r.DescriptorView()
	if start >= end || view.Size == 0 {
		return false
	}
	return start < view.End() && uint64(view.Offset) < end
}
