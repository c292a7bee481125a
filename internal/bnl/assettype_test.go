package bnl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetTypes(t *testing.T) {
	t.Parallel()

	types := AssetTypes()
	require.Len(t, types, 25)
	assert.Equal(t, ResTexture, types[0])
	assert.Equal(t, ResShakeCam, types[len(types)-1])

	for _, code := range []uint32{0, 6, 9, 15, 17, 30} {
		assert.False(t, AssetType(code).Valid(), "code %d", code)
	}
	assert.Equal(t, "AssetType(6)", AssetType(6).String())
	assert.Equal(t, "ResLoctext", ResLoctext.String())
}

func TestParseAssetTypeName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"ResTexture", "restexture", "texture", " TEXTURE "} {
		got, err := ParseAssetTypeName(name)
		require.NoError(t, err, name)
		assert.Equal(t, ResTexture, got)
	}

	got, err := ParseAssetTypeName("xdsp")
	require.NoError(t, err)
	assert.Equal(t, ResXDSP, got)

	_, err = ParseAssetTypeName("sprite")
	require.ErrorIs(t, err, ErrUnknownAssetType)
}

func TestParseAssetType(t *testing.T) {
	t.Parallel()

	got, err := ParseAssetType(24)
	require.NoError(t, err)
	assert.Equal(t, ResScript, got)

	_, err = ParseAssetType(15)
	require.ErrorIs(t, err, ErrUnknownAssetType)
}
