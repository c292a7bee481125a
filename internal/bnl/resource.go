package bnl

import (
	"fmt"
	"io"
)

// VirtualResource presents an ordered list of byte slices as one contiguous,
// randomly addressable resource. Logical offset 0 is the first byte of the
// first slice; the underlying ranges may be discontiguous or overlap.
//
// A VirtualResource borrows its slices and never copies or modifies them.
// When built from a Container it is only valid until the next mutation of
// that Container.
type VirtualResource struct {
	slices [][]byte
	size   int
}

var _ io.ReaderAt = (*VirtualResource)(nil)

// NewVirtualResource resolves vl against backing.
func NewVirtualResource(vl *ViewList, backing []byte) (*VirtualResource, error) {
	slices, err := vl.Resolve(backing)
	if err != nil {
		return nil, err
	}
	return VirtualResourceFromSlices(slices...), nil
}

// VirtualResourceFromSlices builds a resource over explicit slices, for
// producers that have no on-disk view list.
func VirtualResourceFromSlices(slices ...[]byte) *VirtualResource {
	size := 0
	for _, s := range slices {
		size += len(s)
	}
	return &VirtualResource{
		slices: slices,
		size:   size,
	}
}

// Len returns the logical length.
func (r *VirtualResource) Len() int {
	return r.size
}

// IsEmpty reports whether the resource has no bytes.
func (r *VirtualResource) IsEmpty() bool {
	return r.size == 0
}

// Slices returns the underlying slices in logical order.
func (r *VirtualResource) Slices() [][]byte {
	return r.slices
}

// Read copies n bytes starting at logical offset off.
func (r *VirtualResource) Read(off, n int) ([]byte, error) {
	if off < 0 || off > r.size {
		return nil, fmt.Errorf("%w: offset %d, length %d", ErrOffsetOutOfBounds, off, r.size)
	}
	if n < 0 || n > r.size-off {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, length %d", ErrSizeOutOfBounds, n, off, r.size)
	}

	out := make([]byte, n)
	r.copyAt(out, off)
	return out, nil
}

// ReadAll materializes the whole resource contiguously.
func (r *VirtualResource) ReadAll() []byte {
	out := make([]byte, r.size)
	r.copyAt(out, 0)
	return out
}

// ReadAt implements io.ReaderAt over the logical address space.
func (r *VirtualResource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: offset %d", ErrOffsetOutOfBounds, off)
	}
	if off >= int64(r.size) {
		return 0, io.EOF
	}

	n := r.copyAt(p, int(off))
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// copyAt fills dst from logical offset off until dst is full or the resource
// ends, and returns the number of bytes copied.
func (r *VirtualResource) copyAt(dst []byte, off int) int {
	written := 0
	start := 0
	for _, s := range r.slices {
		if written == len(dst) {
			break
		}

		end := start + len(s)
		pos := off + written
		if pos >= start && pos < end {
			written += copy(dst[written:], s[pos-start:])
		}
		start = end
	}
	return written
}
