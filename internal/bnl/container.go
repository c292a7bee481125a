package bnl

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Container is a loaded BNL file. The four section buffers are the source of
// truth; the record table is a parsed view of the asset-description section
// and is rewritten into it on every record mutation.
//
// A Container has no internal locking. Reads may run concurrently with each
// other, but mutations need exclusive access.
type Container struct {
	header   Header
	sections [sectionCount][]byte
	records  []AssetRecord
	opts     Options
}

// RawAsset is an asset's descriptor and resource bytes, copied out of the
// container. Slices keeps the physical fragmentation of the resource.
type RawAsset struct {
	Index      int
	Name       string
	Type       AssetType
	Descriptor []byte
	Slices     [][]byte
}

// Len returns the total resource length.
func (a RawAsset) Len() int {
	n := 0
	for _, s := range a.Slices {
		n += len(s)
	}
	return n
}

// Flatten joins the resource slices into one buffer.
func (a RawAsset) Flatten() []byte {
	return bytes.Join(a.Slices, nil)
}

// Checksum returns the xxhash64 of the flattened resource.
func (a RawAsset) Checksum() uint64 {
	d := xxhash.New()
	for _, s := range a.Slices {
		_, _ = d.Write(s)
	}
	return d.Sum64()
}

// FromBytes parses a complete BNL file. The returned container owns copies of
// all sections; data may be reused by the caller afterwards.
func FromBytes(data []byte, options *Options) (*Container, error) {
	if options == nil {
		options = DefaultOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := options.logger()

	header, err := ParseHeader(data)
	if err != nil {
		return nil, &LoadError{Stage: StageHeader, Err: err}
	}

	inflated, err := inflate(data[HeaderSize:], options.MaxInflatedSize)
	if err != nil {
		return nil, &LoadError{Stage: StageDecompress, Err: err}
	}

	// Section views address the header and inflated body as one buffer
	combined := make([]byte, 0, HeaderSize+len(inflated))
	combined = append(combined, data[:HeaderSize]...)
	combined = append(combined, inflated...)

	c := &Container{
		header: header,
		opts:   *options,
	}

	for s := range sectionCount {
		buf, err := header.View(s).slice(combined)
		if err != nil {
			return nil, &LoadError{Stage: StageSections, Err: fmt.Errorf("%s section: %w", s, err)}
		}
		c.sections[s] = bytes.Clone(buf)
	}

	records, err := ParseRecordTable(c.sections[SectionRecords])
	if err != nil {
		return nil, &LoadError{Stage: StageRecords, Err: err}
	}
	c.records = records

	logger.Debug("BNL loaded",
		"file_count", header.FileCount,
		"flags", header.Flags,
		"records", len(records),
		"compressed_size", len(data)-HeaderSize,
		"inflated_size", len(inflated))

	return c, nil
}

// Header returns the header as loaded.
func (c *Container) Header() Header {
	return c.header
}

// SectionBytes returns a copy of section s.
func (c *Container) SectionBytes(s Section) []byte {
	return bytes.Clone(c.sections[s])
}

// Records returns a copy of the record table in on-disk order.
func (c *Container) Records() []AssetRecord {
	out := make([]AssetRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Record finds a record by exact name.
func (c *Container) Record(name string) (AssetRecord, bool) {
	i, ok := c.find(name)
	if !ok {
		return AssetRecord{}, false
	}
	return c.records[i], true
}

// find scans the table in order; the first exact name match wins.
func (c *Container) find(name string) (int, bool) {
	for i := range c.records {
		if c.records[i].Name() == name {
			return i, true
		}
	}
	return -1, false
}

func (c *Container) lookup(name string, want AssetType) (int, error) {
	i, ok := c.find(name)
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if got := c.records[i].Type; got != want {
		return -1, fmt.Errorf("%w: %q is %s, not %s", ErrTypeMismatch, name, got, want)
	}
	return i, nil
}

// ViewList parses the view list rec points at.
func (c *Container) ViewList(rec AssetRecord) (*ViewList, error) {
	buf := c.sections[SectionViewLists]
	if uint64(rec.ViewListPtr) > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: view list pointer %d beyond %d-byte section",
			ErrOutOfBounds, rec.ViewListPtr, len(buf))
	}

	vl, err := ParseViewList(buf[rec.ViewListPtr:])
	if err != nil {
		return nil, fmt.Errorf("view list at %d: %w", rec.ViewListPtr, err)
	}
	return vl, nil
}

// resourceViews returns the view list for rec, or an empty list when the
// record carries no resource data.
func (c *Container) resourceViews(rec AssetRecord) (*ViewList, error) {
	if !rec.HasResource() {
		return &ViewList{}, nil
	}
	return c.ViewList(rec)
}

func (c *Container) descriptorBytes(rec AssetRecord) ([]byte, error) {
	desc, err := rec.DescriptorView().slice(c.sections[SectionDescriptors])
	if err != nil {
		return nil, fmt.Errorf("descriptor: %w", err)
	}
	return desc, nil
}

func (c *Container) virtualResource(rec AssetRecord) (*VirtualResource, error) {
	vl, err := c.resourceViews(rec)
	if err != nil {
		return nil, err
	}
	return NewVirtualResource(vl, c.sections[SectionResources])
}

// Raw returns the descriptor and resource slices of the named record.
func (c *Container) Raw(name string) (RawAsset, error) {
	i, ok := c.find(name)
	if !ok {
		return RawAsset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.raw(c.records[i])
}

// RawAll returns every record that resolves, in table order. Records whose
// descriptor or view list cannot be resolved are skipped and reported as
// diagnostics instead of failing the batch.
func (c *Container) RawAll() ([]RawAsset, []Diagnostic) {
	assets := make([]RawAsset, 0, len(c.records))
	var diags []Diagnostic

	for _, rec := range c.records {
		asset, err := c.raw(rec)
		if err != nil {
			diags = append(diags, c.diagnose(rec, err))
			continue
		}
		assets = append(assets, asset)
	}

	return assets, diags
}

func (c *Container) raw(rec AssetRecord) (RawAsset, error) {
	desc, err := c.descriptorBytes(rec)
	if err != nil {
		return RawAsset{}, err
	}

	res, err := c.virtualResource(rec)
	if err != nil {
		return RawAsset{}, err
	}

	slices := make([][]byte, len(res.Slices()))
	for i, s := range res.Slices() {
		slices[i] = bytes.Clone(s)
	}

	return RawAsset{
		Index:      rec.Index,
		Name:       rec.Name(),
		Type:       rec.Type,
		Descriptor: bytes.Clone(desc),
		Slices:     slices,
	}, nil
}

func (c *Container) diagnose(rec AssetRecord, err error) Diagnostic {
	d := Diagnostic{Index: rec.Index, Name: rec.Name(), Err: err}
	c.opts.logger().Debug("Skipping asset", "index", d.Index, "name", d.Name, "error", err)
	return d
}
