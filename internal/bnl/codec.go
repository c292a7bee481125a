package bnl

import (
	"bytes"
	"fmt"
)

// Descriptor is the type-specific header of an asset, stored in the
// descriptor section.
type Descriptor interface {
	// Bytes serializes the descriptor.
	Bytes() ([]byte, error)

	// SerializedSize is the length Bytes will return.
	SerializedSize() int

	// AssetType is the asset type this descriptor belongs to.
	AssetType() AssetType
}

// Asset is a typed asset built by a Codec.
type Asset interface {
	Name() string

	// ResourceData returns the asset's resource bytes for writing back with
	// UpdateAsset. Its length must match the asset's existing resource.
	ResourceData() []byte
}

// Codec parses one asset type. Implementations live outside this package;
// the container only hands them descriptor bytes and a VirtualResource.
//
// Type arguments of Typed and friends are inferred from a Codec-typed value:
//
//	var textures bnl.Codec[*texture.Descriptor, *texture.Asset] = texture.Codec{}
//	assets, diags := bnl.TypedAll(c, textures)
type Codec[D Descriptor, A Asset] interface {
	AssetType() AssetType

	// ParseDescriptor parses exactly the record's descriptor bytes.
	ParseDescriptor(data []byte) (D, error)

	// NewAsset builds an asset. res borrows container memory, so anything the
	// asset keeps must be copied.
	NewAsset(name string, desc D, res *VirtualResource) (A, error)
}

// Typed loads the named asset through codec. It fails with ErrNotFound,
// ErrTypeMismatch, or whatever the codec returns.
func Typed[D Descriptor, A Asset](c *Container, codec Codec[D, A], name string) (A, error) {
	i, err := c.lookup(name, codec.AssetType())
	if err != nil {
		var zero A
		return zero, err
	}
	return typed(c, codec, c.records[i])
}

// TypedAll loads every record of the codec's type, in table order. Records
// that fail to load are skipped and reported as diagnostics.
func TypedAll[D Descriptor, A Asset](c *Container, codec Codec[D, A]) ([]A, []Diagnostic) {
	var assets []A
	var diags []Diagnostic

	for _, rec := range c.records {
		if rec.Type != codec.AssetType() {
			continue
		}

		asset, err := typed(c, codec, rec)
		if err != nil {
			diags = append(diags, c.diagnose(rec, err))
			continue
		}
		assets = append(assets, asset)
	}

	return assets, diags
}

// TypedDescriptor parses only the descriptor of the named asset.
func TypedDescriptor[D Descriptor, A Asset](c *Container, codec Codec[D, A], name string) (D, error) {
	var zero D

	i, err := c.lookup(name, codec.AssetType())
	if err != nil {
		return zero, err
	}

	return parseDescriptor(c, codec, c.records[i])
}

// UpdateAsset writes asset.ResourceData back over the named record's resource.
func UpdateAsset[D Descriptor, A Asset](c *Container, codec Codec[D, A], name string, asset A) error {
	return c.UpdateResource(name, codec.AssetType(), asset.ResourceData())
}

func typed[D Descriptor, A Asset](c *Container, codec Codec[D, A], rec AssetRecord) (A, error) {
	var zero A

	desc, err := parseDescriptor(c, codec, rec)
	if err != nil {
		return zero, err
	}

	res, err := c.virtualResource(rec)
	if err != nil {
		return zero, err
	}

	asset, err := codec.NewAsset(rec.Name(), desc, res)
	if err != nil {
		return zero, fmt.Errorf("building %s %q: %w", rec.Type, rec.Name(), err)
	}

	return asset, nil
}

func parseDescriptor[D Descriptor, A Asset](c *Container, codec Codec[D, A], rec AssetRecord) (D, error) {
	var zero D

	data, err := c.descriptorBytes(rec)
	if err != nil {
		return zero, err
	}

	desc, err := codec.ParseDescriptor(data)
	if err != nil {
		return zero, fmt.Errorf("parsing %s descriptor of %q: %w", rec.Type, rec.Name(), err)
	}

	return desc, nil
}

// OpaqueDescriptor is a Descriptor over raw bytes, for replacing a
// descriptor without a type-specific parser.
type OpaqueDescriptor struct {
	Type AssetType
	Data []byte
}

var _ Descriptor = OpaqueDescriptor{}

func (d OpaqueDescriptor) Bytes() ([]byte, error) {
	return bytes.Clone(d.Data), nil
}

func (d OpaqueDescriptor) SerializedSize() int {
	return len(d.Data)
}

func (d OpaqueDescriptor) AssetType() AssetType {
	return d.Type
}
