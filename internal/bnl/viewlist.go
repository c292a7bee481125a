package bnl

import (
	"encoding/binary"
	"fmt"
)

// viewListHeaderSize covers the declared size and view count fields.
const viewListHeaderSize = 8

// ViewList describes how one logical resource is fragmented across the
// raw-buffer section. Views are kept in logical order.
type ViewList struct {
	DeclaredSize uint32
	Views        []ByteView
}

// ParseViewList decodes a view list from the start of data. Bytes after the
// last view are ignored.
func ParseViewList(data []byte) (*ViewList, error) {
	if len(data) < viewListHeaderSize {
		return nil, fmt.Errorf("%w: view list needs %d bytes, got %d", ErrTooSmall, viewListHeaderSize, len(data))
	}

	declared := binary.LittleEndian.Uint32(data[0:4])
	count := binary.LittleEndian.Uint32(data[4:8])

	if count == 0 {
		return nil, fmt.Errorf("%w: view count is zero", ErrMalformed)
	}

	need := uint64(count)*ByteViewSize + viewListHeaderSize
	if uint64(declared) != need {
		return nil, fmt.Errorf("%w: declared size %d, expected %d for %d views", ErrMalformed, declared, need, count)
	}

	if uint64(len(data)) < need {
		return nil, fmt.Errorf("%w: %d views need %d bytes, got %d", ErrTruncated, count, need, len(data))
	}

	views := make([]ByteView, count)
	for i := range views {
		p := viewListHeaderSize + i*ByteViewSize
		views[i] = readByteView(data[p : p+ByteViewSize])
	}

	return &ViewList{
		DeclaredSize: declared,
		Views:        views,
	}, nil
}

// Count returns the number of views.
func (vl *ViewList) Count() int {
	return len(vl.Views)
}

// Len returns the logical length, the sum of all view sizes.
func (vl *ViewList) Len() int {
	var total uint64
	for _, v := range vl.Views {
		total += uint64(v.Size)
	}
	return int(total)
}

// Bytes encodes the view list in its on-disk layout.
func (vl *ViewList) Bytes() []byte {
	b := make([]byte, viewListHeaderSize+len(vl.Views)*ByteViewSize)
	binary.LittleEndian.PutUint32(b[0:4], vl.DeclaredSize)
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(vl.Views)))
	for i, v := range vl.Views {
		p := viewListHeaderSize + i*ByteViewSize
		v.put(b[p : p+ByteViewSize])
	}
	return b
}

// Resolve slices every view out of backing, in order. The returned slices
// alias backing.
func (vl *ViewList) Resolve(backing []byte) ([][]byte, error) {
	slices := make([][]byte, len(vl.Views))
	for i, v := range vl.Views {
		s, err := v.slice(backing)
		if err != nil {
			return nil, fmt.Errorf("view %d: %w", i, err)
		}
		slices[i] = s
	}
	return slices, nil
}

// ScatterWrite overwrites the view ranges of backing with data, consuming data
// left to right. len(data) must equal Len. Every view is bounds-checked before
// the first byte is written, so a failed call leaves backing untouched.
func (vl *ViewList) ScatterWrite(data, backing []byte) error {
	if len(data) != vl.Len() {
		return fmt.Errorf("%w: got %d bytes, views cover %d", ErrSizeMismatch, len(data), vl.Len())
	}

	targets, err := vl.Resolve(backing)
	if err != nil {
		return err
	}

	written := 0
	for _, dst := range targets {
		written += copy(dst, data[written:])
	}

	return nil
}
