package bnl

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size of the uncompressed header at the start of a BNL file.
const HeaderSize = 40

// Section identifies one of the four body sections.
type Section int

const (
	SectionRecords Section = iota
	SectionViewLists
	SectionResources
	SectionDescriptors

	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionRecords:
		return "asset-description"
	case SectionViewLists:
		return "view-list"
	case SectionResources:
		return "raw-buffer"
	case SectionDescriptors:
		return "descriptor"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// Header is the fixed 40-byte BNL header. Section views address the combined
// buffer formed by the header followed by the inflated body.
type Header struct {
	FileCount uint16      // bytes 0-1
	Flags     uint8       // byte 2
	Reserved  [5]byte     // bytes 3-7
	Sections  [4]ByteView // bytes 8-39, indexed by Section
}

// ParseHeader decodes the first HeaderSize bytes of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTooSmall, HeaderSize, len(data))
	}

	var h Header
	if _, err := binary.Decode(data[:HeaderSize], binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("decoding header: %w", err)
	}

	return h, nil
}

// Bytes encodes the header into HeaderSize bytes.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	if _, err := binary.Encode(b, binary.LittleEndian, &h); err != nil {
		// Header is a fixed-size struct, so this only fires if its layout is broken
		panic(fmt.Sprintf("bnl: encoding header: %v", err))
	}
	return b
}

// View returns the byte view of section s.
func (h Header) View(s Section) ByteView {
	return h.Sections[s]
}
