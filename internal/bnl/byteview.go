package bnl

import (
	"encoding/binary"
	"fmt"
)

// ByteViewSize is the on-disk size of a ByteView.
const ByteViewSize = 8

// ByteView locates a byte range as an (offset, size) pair. Which buffer the
// offset refers to depends on where the view is stored.
type ByteView struct {
	Offset uint32
	Size   uint32
}

// End returns the exclusive end offset. It is computed in 64 bits so that
// views near the top of the 32-bit range cannot wrap.
func (v ByteView) End() uint64 {
	return uint64(v.Offset) + uint64(v.Size)
}

// Contains reports whether the view lies entirely within a buffer of n bytes.
func (v ByteView) Contains(n int) bool {
	return v.End() <= uint64(n)
}

// slice returns buf[Offset:End] with its capacity clipped to the view.
func (v ByteView) slice(buf []byte) ([]byte, error) {
	if !v.Contains(len(buf)) {
		return nil, fmt.Errorf("%w: [%d, %d) exceeds buffer of %d bytes",
			ErrOutOfBounds, v.Offset, v.End(), len(buf))
	}
	end := int(v.End())
	return buf[v.Offset:end:end], nil
}

func readByteView(b []byte) ByteView {
	return ByteView{
		Offset: binary.LittleEndian.Uint32(b[0:4]),
		Size:   binary.LittleEndian.Uint32(b[4:8]),
	}
}

func (v ByteView) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], v.Offset)
	binary.LittleEndian.PutUint32(b[4:8], v.Size)
}
