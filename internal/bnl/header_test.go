package bnl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jchantrell/bnltool/internal/bnl/bnltest"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	file := bnltest.File{
		FileCount: 7,
		Flags:     0x21,
		Assets: []bnltest.Asset{
			{Name: "aid_a", Type: uint32(ResMisc), Descriptor: []byte{1, 2, 3}},
		},
		Order: []int{bnltest.Descriptors, bnltest.Records, bnltest.ViewLists, bnltest.Resources},
	}
	data := file.Bytes(t)

	h, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, uint16(7), h.FileCount)
	require.Equal(t, uint8(0x21), h.Flags)
	require.Equal(t, ByteView{Offset: HeaderSize, Size: 3}, h.View(SectionDescriptors))
	require.Equal(t, ByteView{Offset: HeaderSize + 3, Size: RecordSize}, h.View(SectionRecords))
	require.Equal(t, ByteView{Offset: HeaderSize + 3 + RecordSize, Size: 0}, h.View(SectionViewLists))

	require.Equal(t, data[:HeaderSize], h.Bytes())
}

func TestParseHeaderTooSmall(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrTooSmall)
}

func TestHeaderReservedBytesPreserved(t *testing.T) {
	t.Parallel()

	raw := make([]byte, HeaderSize)
	copy(raw[3:8], []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01})

	h, err := ParseHeader(raw)
	require.NoError(t, err)
	require.Equal(t, [5]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01}, h.Reserved)
	require.Equal(t, raw, h.Bytes())
}

func TestSectionString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "asset-description", SectionRecords.String())
	require.Equal(t, "view-list", SectionViewLists.String())
	require.Equal(t, "raw-buffer", SectionResources.String())
	require.Equal(t, "descriptor", SectionDescriptors.String())
	require.Equal(t, "section(9)", Section(9).String())
}
