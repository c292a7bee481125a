package bnl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/bnltool/internal/bnl/bnltest"
)

func TestParseRecord(t *testing.T) {
	t.Parallel()

	data := bnltest.Record(bnltest.RecordFields{
		Name:           "aid_texture_grass",
		Type:           uint32(ResTexture),
		UnknownA:       0xAAAA0001,
		UnknownB:       0xBBBB0002,
		ChunkCount:     3,
		DescriptorPtr:  64,
		DescriptorSize: 32,
		ViewListPtr:    24,
		ResourceSize:   4096,
	})

	rec, err := ParseRecord(data)
	require.NoError(t, err)

	assert.Equal(t, "aid_texture_grass", rec.Name())
	assert.Equal(t, ResTexture, rec.Type)
	assert.Equal(t, uint32(0xAAAA0001), rec.UnknownA)
	assert.Equal(t, uint32(0xBBBB0002), rec.UnknownB)
	assert.Equal(t, uint32(3), rec.ChunkCount)
	assert.Equal(t, ByteView{Offset: 64, Size: 32}, rec.DescriptorView())
	assert.Equal(t, uint32(24), rec.ViewListPtr)
	assert.True(t, rec.HasResource())

	assert.Equal(t, data, rec.Bytes())
}

func TestParseRecordErrors(t *testing.T) {
	t.Parallel()

	t.Run("too small", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRecord(make([]byte, RecordSize-1))
		require.ErrorIs(t, err, ErrTooSmall)
	})

	for _, code := range []uint32{0, 6, 9, 15, 17, 30, 0xFFFFFFFF} {
		t.Run("unknown type", func(t *testing.T) {
			t.Parallel()
			_, err := ParseRecord(bnltest.Record(bnltest.RecordFields{Name: "x", Type: code}))
			require.ErrorIs(t, err, ErrUnknownAssetType)
		})
	}
}

func TestRecordName(t *testing.T) {
	t.Parallel()

	t.Run("stops at first NUL", func(t *testing.T) {
		t.Parallel()
		var rec AssetRecord
		copy(rec.RawName[:], "abc\x00def")
		require.Equal(t, "abc", rec.Name())
	})

	t.Run("uses full field without NUL", func(t *testing.T) {
		t.Parallel()
		name := strings.Repeat("n", NameSize)
		var rec AssetRecord
		require.NoError(t, rec.SetName(name))
		require.Equal(t, name, rec.Name())
	})

	t.Run("invalid utf8 is empty", func(t *testing.T) {
		t.Parallel()
		var rec AssetRecord
		copy(rec.RawName[:], []byte{'o', 'k', 0, 0xFF, 0xFE})
		require.Equal(t, "", rec.Name())
	})

	t.Run("set name clears old bytes", func(t *testing.T) {
		t.Parallel()
		var rec AssetRecord
		require.NoError(t, rec.SetName("a_much_longer_name"))
		require.NoError(t, rec.SetName("short"))
		require.Equal(t, "short", rec.Name())
	})

	t.Run("set name too long", func(t *testing.T) {
		t.Parallel()
		var rec AssetRecord
		require.Error(t, rec.SetName(strings.Repeat("n", NameSize+1)))
	})
}

func TestParseRecordTable(t *testing.T) {
	t.Parallel()

	var table []byte
	for i, name := range []string{"first", "second", "third"} {
		table = append(table, bnltest.Record(bnltest.RecordFields{
			Name:          name,
			Type:          uint32(ResScript),
			DescriptorPtr: uint32(i * 4),
		})...)
	}

	t.Run("rows in order", func(t *testing.T) {
		t.Parallel()
		records, err := ParseRecordTable(table)
		require.NoError(t, err)
		require.Len(t, records, 3)
		for i, rec := range records {
			assert.Equal(t, i, rec.Index)
			assert.Equal(t, uint32(i*4), rec.DescriptorPtr)
		}
		assert.Equal(t, "second", records[1].Name())
	})

	t.Run("trailing partial row ignored", func(t *testing.T) {
		t.Parallel()
		data := append(append([]byte{}, table...), make([]byte, RecordSize-1)...)
		records, err := ParseRecordTable(data)
		require.NoError(t, err)
		require.Len(t, records, 3)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		records, err := ParseRecordTable(nil)
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("bad row fails table", func(t *testing.T) {
		t.Parallel()
		data := append(append([]byte{}, table...), bnltest.Record(bnltest.RecordFields{Name: "bad", Type: 99})...)
		_, err := ParseRecordTable(data)
		require.ErrorIs(t, err, ErrUnknownAssetType)
		require.ErrorContains(t, err, "record 3")
	})
}

func TestRecordOverlapsDescriptor(t *testing.T) {
	t.Parallel()

	rec := AssetRecord{DescriptorPtr: 10, DescriptorSize: 5}

	tests := []struct {
		start, end uint64
		want       bool
	}{
		{0, 10, false},
		{15, 20, false},
		{0, 11, true},
		{14, 20, true},
		{11, 12, true},
		{0, 100, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rec.overlapsDescriptor(tt.start, tt.end), "[%d, %d)", tt.start, tt.end)
	}
}
