package bnl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/bnltool/internal/bnl/bnltest"
)

// fixture has a fragmented texture, a single-chunk script and a descriptor-only
// loctext. Descriptors are packed back to back: [0,24) [24,40) [40,52).
func fixture() bnltest.File {
	return bnltest.File{
		Flags: 0x01,
		Gap:   16,
		Assets: []bnltest.Asset{
			{
				Name:       "aid_texture_grass",
				Type:       uint32(ResTexture),
				UnknownA:   0x11111111,
				UnknownB:   0x22222222,
				ChunkCount: 3,
				Descriptor: fill(0xD1, 24),
				Chunks:     [][]byte{fill(0x01, 100), fill(0x02, 50), fill(0x03, 30)},
			},
			{
				Name:       "aid_script_main",
				Type:       uint32(ResScript),
				ChunkCount: 1,
				Descriptor: fill(0xD2, 16),
				Chunks:     [][]byte{bnltest.Sequence(64)},
			},
			{
				Name:       "aid_loctext_en",
				Type:       uint32(ResLoctext),
				Descriptor: fill(0xD3, 12),
			},
		},
	}
}

func fill(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func mustLoad(tb testing.TB, data []byte) *Container {
	tb.Helper()
	c, err := FromBytes(data, nil)
	require.NoError(tb, err)
	return c
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	c := mustLoad(t, fixture().Bytes(t))

	h := c.Header()
	assert.Equal(t, uint16(3), h.FileCount)
	assert.Equal(t, uint8(0x01), h.Flags)

	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "aid_texture_grass", records[0].Name())
	assert.Equal(t, ResScript, records[1].Type)
	assert.Equal(t, uint32(0x11111111), records[0].UnknownA)
	assert.False(t, records[2].HasResource())

	t.Run("fragmented resource", func(t *testing.T) {
		t.Parallel()
		raw, err := c.Raw("aid_texture_grass")
		require.NoError(t, err)
		assert.Equal(t, 0, raw.Index)
		assert.Equal(t, ResTexture, raw.Type)
		assert.Equal(t, fill(0xD1, 24), raw.Descriptor)
		require.Len(t, raw.Slices, 3)
		assert.Equal(t, 180, raw.Len())

		want := bytes.Join([][]byte{fill(0x01, 100), fill(0x02, 50), fill(0x03, 30)}, nil)
		assert.Equal(t, want, raw.Flatten())
		assert.Equal(t, xxhash.Sum64(want), raw.Checksum())
	})

	t.Run("descriptor only", func(t *testing.T) {
		t.Parallel()
		raw, err := c.Raw("aid_loctext_en")
		require.NoError(t, err)
		assert.Equal(t, fill(0xD3, 12), raw.Descriptor)
		assert.Empty(t, raw.Slices)
		assert.Equal(t, 0, raw.Len())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := c.Raw("aid_missing")
		require.ErrorIs(t, err, ErrNotFound)

		_, ok := c.Record("aid_missing")
		assert.False(t, ok)
	})

	t.Run("raw copies are detached", func(t *testing.T) {
		t.Parallel()
		raw, err := c.Raw("aid_script_main")
		require.NoError(t, err)
		raw.Slices[0][0] = 0xFF
		raw.Descriptor[0] = 0xFF

		again, err := c.Raw("aid_script_main")
		require.NoError(t, err)
		assert.Equal(t, bnltest.Sequence(64), again.Flatten())
		assert.Equal(t, fill(0xD2, 16), again.Descriptor)
	})

	t.Run("records are copied", func(t *testing.T) {
		t.Parallel()
		out := c.Records()
		out[0].Type = ResFont
		rec, ok := c.Record("aid_texture_grass")
		require.True(t, ok)
		assert.Equal(t, ResTexture, rec.Type)
	})
}

func TestFromBytesSectionOrder(t *testing.T) {
	t.Parallel()

	inOrder := fixture()
	shuffled := fixture()
	shuffled.Order = []int{bnltest.Descriptors, bnltest.Resources, bnltest.Records, bnltest.ViewLists}

	a := mustLoad(t, inOrder.Bytes(t))
	b := mustLoad(t, shuffled.Bytes(t))

	assert.Equal(t, a.Records(), b.Records())
	for s := range sectionCount {
		assert.Equal(t, a.SectionBytes(s), b.SectionBytes(s), s.String())
	}

	rawA, diagsA := a.RawAll()
	rawB, diagsB := b.RawAll()
	assert.Empty(t, diagsA)
	assert.Empty(t, diagsB)
	assert.Equal(t, rawA, rawB)
}

func TestFromBytesErrors(t *testing.T) {
	t.Parallel()

	valid := fixture().Bytes(t)

	badType := fixture().Sections()
	binary.LittleEndian.PutUint32(badType[bnltest.Records][RecordSize+NameSize:], 99)

	sectionPastEnd := bytes.Clone(valid)
	// descriptor section size
	binary.LittleEndian.PutUint32(sectionPastEnd[36:40], 1<<20)

	tests := []struct {
		name  string
		data  []byte
		opts  *Options
		stage Stage
		want  error
	}{
		{
			name:  "short header",
			data:  valid[:HeaderSize-1],
			stage: StageHeader,
			want:  ErrTooSmall,
		},
		{
			name:  "not zlib",
			data:  append(bytes.Clone(valid[:HeaderSize]), []byte("definitely not a zlib stream")...),
			stage: StageDecompress,
			want:  ErrDecompression,
		},
		{
			name:  "truncated zlib",
			data:  valid[:len(valid)-8],
			stage: StageDecompress,
			want:  ErrDecompression,
		},
		{
			name:  "inflated size cap",
			data:  valid,
			opts:  &Options{CompressionLevel: DefaultCompressionLevel, MaxInflatedSize: 64},
			stage: StageDecompress,
			want:  ErrDecompression,
		},
		{
			name:  "section past end",
			data:  sectionPastEnd,
			stage: StageSections,
			want:  ErrOutOfBounds,
		},
		{
			name:  "unknown asset type",
			data:  bnltest.Pack(t, 3, 0, badType),
			stage: StageRecords,
			want:  ErrUnknownAssetType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromBytes(tt.data, tt.opts)
			require.ErrorIs(t, err, tt.want)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.stage, loadErr.Stage)
		})
	}

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()
		_, err := FromBytes(valid, &Options{CompressionLevel: 42})
		require.Error(t, err)
	})
}

func TestRawAllSkipsBrokenRecords(t *testing.T) {
	t.Parallel()

	s := fixture().Sections()
	row := s[bnltest.Records]
	// record 1: view list pointer past the section
	binary.LittleEndian.PutUint32(row[RecordSize+NameSize+24:], 9999)
	// record 2: descriptor runs past the section
	binary.LittleEndian.PutUint32(row[2*RecordSize+NameSize+20:], 1000)

	c := mustLoad(t, bnltest.Pack(t, 3, 0, s))

	assets, diags := c.RawAll()
	require.Len(t, assets, 1)
	assert.Equal(t, "aid_texture_grass", assets[0].Name)

	require.Len(t, diags, 2)
	assert.Equal(t, 1, diags[0].Index)
	assert.Equal(t, "aid_script_main", diags[0].Name)
	assert.ErrorIs(t, diags[0].Err, ErrOutOfBounds)
	assert.Equal(t, 2, diags[1].Index)
	assert.ErrorIs(t, diags[1].Err, ErrOutOfBounds)
	assert.Contains(t, diags[1].String(), "aid_loctext_en")
}

func TestRawMalformedViewList(t *testing.T) {
	t.Parallel()

	s := fixture().Sections()
	// texture view list count no longer agrees with its declared size
	binary.LittleEndian.PutUint32(s[bnltest.ViewLists][4:8], 2)

	c := mustLoad(t, bnltest.Pack(t, 3, 0, s))

	_, err := c.Raw("aid_texture_grass")
	require.ErrorIs(t, err, ErrMalformed)

	rec, ok := c.Record("aid_texture_grass")
	require.True(t, ok)
	_, err = c.ViewList(rec)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestContainerRoundTrip(t *testing.T) {
	t.Parallel()

	orders := [][]int{
		nil,
		{bnltest.Resources, bnltest.Descriptors, bnltest.ViewLists, bnltest.Records},
	}
	levels := []int{DefaultCompressionLevel, 9, -2}

	for _, order := range orders {
		for _, level := range levels {
			file := fixture()
			file.Order = order

			c := mustLoad(t, file.Bytes(t))
			c.opts.CompressionLevel = level

			out, err := c.Bytes()
			require.NoError(t, err)

			again := mustLoad(t, out)
			assert.Equal(t, c.Header().FileCount, again.Header().FileCount)
			assert.Equal(t, c.Header().Flags, again.Header().Flags)
			assert.Equal(t, c.Records(), again.Records())
			for s := range sectionCount {
				assert.Equal(t, c.SectionBytes(s), again.SectionBytes(s), s.String())
			}

			before, _ := c.RawAll()
			after, _ := again.RawAll()
			assert.Equal(t, before, after)
		}
	}
}

func TestContainerBytesLayout(t *testing.T) {
	t.Parallel()

	file := fixture()
	file.Order = []int{bnltest.Descriptors, bnltest.Resources, bnltest.ViewLists, bnltest.Records}
	c := mustLoad(t, file.Bytes(t))
	original := c.Header()

	out, err := c.Bytes()
	require.NoError(t, err)

	h, err := ParseHeader(out)
	require.NoError(t, err)

	offset := uint32(HeaderSize)
	for s := range sectionCount {
		assert.Equal(t, offset, h.View(s).Offset, s.String())
		assert.Equal(t, uint32(len(c.SectionBytes(s))), h.View(s).Size, s.String())
		offset += h.View(s).Size
	}

	assert.Equal(t, original, c.Header())
}
