package bnl

import (
	"fmt"
	"math"
)

// UpdateResource overwrites the resource of the named record in place. The
// new data must be exactly as long as the existing resource: the physical
// footprint of a resource never changes.
func (c *Container) UpdateResource(name string, assetType AssetType, data []byte) error {
	i, err := c.lookup(name, assetType)
	if err != nil {
		return err
	}

	vl, err := c.resourceViews(c.records[i])
	if err != nil {
		return fmt.Errorf("updating resource of %q: %w", name, err)
	}

	if err := vl.ScatterWrite(data, c.sections[SectionResources]); err != nil {
		return fmt.Errorf("updating resource of %q: %w", name, err)
	}

	return nil
}

// UpdateDescriptor replaces the descriptor of the named record in place and,
// when resource is non-nil, its resource as UpdateResource would.
//
// The descriptor may shrink but not grow: growing would require moving every
// descriptor that follows it, and the container has no relocation strategy.
// All checks run before any byte is written.
func (c *Container) UpdateDescriptor(name string, desc Descriptor, resource []byte) error {
	i, err := c.lookup(name, desc.AssetType())
	if err != nil {
		return err
	}
	rec := c.records[i]

	data, err := desc.Bytes()
	if err != nil {
		return fmt.Errorf("serializing descriptor of %q: %w", name, err)
	}
	if len(data) != desc.SerializedSize() {
		return fmt.Errorf("%w: descriptor of %q serialized to %d bytes, reported %d",
			ErrSizeMismatch, name, len(data), desc.SerializedSize())
	}

	if uint64(len(data)) > uint64(rec.DescriptorSize) {
		start := uint64(rec.DescriptorPtr)
		occupants := c.occupants(start, start+uint64(len(data)), i)
		c.opts.logger().Debug("Descriptor growth rejected",
			"name", name,
			"size", rec.DescriptorSize,
			"new_size", len(data),
			"occupants", recordNames(occupants))
		return fmt.Errorf("%w: %q needs %d bytes, has %d (%d other records in range)",
			ErrDescriptorGrowthUnsupported, name, len(data), rec.DescriptorSize, len(occupants))
	}

	target, err := ByteView{Offset: rec.DescriptorPtr, Size: uint32(len(data))}.slice(c.sections[SectionDescriptors])
	if err != nil {
		return fmt.Errorf("updating descriptor of %q: %w", name, err)
	}

	if resource != nil {
		vl, err := c.resourceViews(rec)
		if err != nil {
			return fmt.Errorf("updating resource of %q: %w", name, err)
		}
		// ScatterWrite validates everything before writing, so a failure here
		// leaves both sections untouched
		if err := vl.ScatterWrite(resource, c.sections[SectionResources]); err != nil {
			return fmt.Errorf("updating resource of %q: %w", name, err)
		}
	}

	copy(target, data)
	rec.DescriptorSize = uint32(len(data))
	c.writeRecord(i, rec)

	return nil
}

// writeRecord stores rec in the table and re-serializes it into the
// asset-description section at its row.
func (c *Container) writeRecord(i int, rec AssetRecord) {
	rec.Index = i
	copy(c.sections[SectionRecords][i*RecordSize:(i+1)*RecordSize], rec.Bytes())
	c.records[i] = rec
}

// DescriptorRangeOccupants returns every record whose descriptor range
// overlaps [start, end). Ranges that only touch at a boundary do not overlap.
func (c *Container) DescriptorRangeOccupants(start, end uint32) []AssetRecord {
	return c.occupants(uint64(start), uint64(end), -1)
}

func (c *Container) occupants(start, end uint64, skip int) []AssetRecord {
	var out []AssetRecord
	for i, rec := range c.records {
		if i != skip && rec.overlapsDescriptor(start, end) {
			out = append(out, rec)
		}
	}
	return out
}

func recordNames(records []AssetRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name()
	}
	return names
}

// Bytes serializes the container. Sections are laid out contiguously after
// the header in fixed order and the header views are rewritten to match; the
// body is deflated at the configured level.
func (c *Container) Bytes() ([]byte, error) {
	header := c.header

	total := uint64(HeaderSize)
	for s := range sectionCount {
		total += uint64(len(c.sections[s]))
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d-byte layout", ErrSizeOverflow, total)
	}

	body := make([]byte, 0, total-HeaderSize)
	offset := uint32(HeaderSize)
	for s := range sectionCount {
		size := uint32(len(c.sections[s]))
		header.Sections[s] = ByteView{Offset: offset, Size: size}
		body = append(body, c.sections[s]...)
		offset += size
	}

	compressed, err := deflate(body, c.opts.CompressionLevel)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, HeaderSize+len(compressed))
	out = append(out, header.Bytes()...)
	out = append(out, compressed...)

	c.opts.logger().Debug("BNL serialized",
		"records", len(c.records),
		"inflated_size", len(body),
		"compressed_size", len(compressed))

	return out, nil
}
