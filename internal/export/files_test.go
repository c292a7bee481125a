package export

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/bnltool/internal/bnl"
)

func rawAssets() []bnl.RawAsset {
	return []bnl.RawAsset{
		{
			Index:      0,
			Name:       "aid_texture_sand",
			Type:       bnl.ResTexture,
			Descriptor: []byte{1, 2, 3, 4},
			Slices:     [][]byte{{10, 11}, {12, 13, 14}},
		},
		{
			Index:      1,
			Name:       "aid_loctext_de",
			Type:       bnl.ResLoctext,
			Descriptor: []byte{5, 6},
		},
		{
			Index:      2,
			Name:       "aid_script_main",
			Type:       bnl.ResScript,
			Descriptor: []byte{7},
			Slices:     [][]byte{{20}},
		},
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestExportAssets(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "level_bnl")
	var calls atomic.Int32

	result, err := NewExporter(out, 3).ExportAssets(context.Background(), rawAssets(), func(current, total int, _ string) {
		calls.Add(1)
		assert.LessOrEqual(t, current, total)
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Written)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, int64(4+5+2+1+1), result.Bytes)
	assert.Equal(t, int32(3), calls.Load())

	tex := filepath.Join(out, "aid_texture_sand")
	assert.Equal(t, []byte{1, 2, 3, 4}, readFile(t, filepath.Join(tex, DescriptorFile)))
	assert.Equal(t, []byte{10, 11}, readFile(t, filepath.Join(tex, "resource0")))
	assert.Equal(t, []byte{12, 13, 14}, readFile(t, filepath.Join(tex, "resource1")))

	loc := filepath.Join(out, "aid_loctext_de")
	assert.Equal(t, []byte{5, 6}, readFile(t, filepath.Join(loc, DescriptorFile)))
	assert.NoFileExists(t, filepath.Join(loc, "resource0"))
}

func TestExportAssetsSkipsFileCollision(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	blocker := filepath.Join(out, "aid_loctext_de")
	require.NoError(t, os.WriteFile(blocker, []byte("occupied"), 0644))

	result, err := NewExporter(out, 1).ExportAssets(context.Background(), rawAssets(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Written)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "aid_loctext_de", result.Skipped[0].Name)
	assert.ErrorIs(t, result.Skipped[0].Err, ErrPathIsFile)
	assert.Equal(t, []byte("occupied"), readFile(t, blocker))
}

func TestExportAssetsExistingDirectory(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "aid_script_main"), 0755))

	result, err := NewExporter(out, 2).ExportAssets(context.Background(), rawAssets(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Written)
}

func TestExportAssetsCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewExporter(t.TempDir(), 2).ExportAssets(ctx, rawAssets(), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Written)
}

func TestAssetDirs(t *testing.T) {
	t.Parallel()

	assets := []bnl.RawAsset{
		{Index: 0, Name: "dup"},
		{Index: 1, Name: "dup"},
		{Index: 2, Name: "art/ui/icon"},
		{Index: 3, Name: ""},
		{Index: 4, Name: ".."},
		{Index: 5, Name: "tab\there"},
	}

	assert.Equal(t, []string{"dup", "dup.1", "art@ui@icon", "unnamed_3", "__", "tab_here"}, assetDirs(assets))
}
