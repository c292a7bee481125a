package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jchantrell/bnltool/internal/bnl"
)

// ErrPathIsFile is reported for an asset whose output directory already
// exists as a regular file.
var ErrPathIsFile = errors.New("export: a file already exists at the asset path")

// DescriptorFile is the file name an asset's descriptor is written to. Resource
// slices are written to resource0, resource1, ...
const DescriptorFile = "descriptor"

// Exporter writes raw assets to disk. Every asset becomes a directory named
// after it, holding its descriptor and one file per physical resource slice.
type Exporter struct {
	outputDir string
	workers   int
}

// NewExporter creates a new asset exporter. workers below 1 means 1.
func NewExporter(outputDir string, workers int) *Exporter {
	return &Exporter{
		outputDir: outputDir,
		workers:   max(workers, 1),
	}
}

// ProgressCallback is called to report export progress. It may be called from
// several goroutines at once.
type ProgressCallback func(current int, total int, description string)

// Skipped is an asset that could not be written
type Skipped struct {
	Name string
	Err  error
}

// Result summarizes an export
type Result struct {
	Written int
	Bytes   int64
	Skipped []Skipped
}

// ExportAssets writes assets under the output directory. A failure on one
// asset is logged and recorded in Result.Skipped; only a failure to create
// the output directory or a cancelled context aborts the export.
func (e *Exporter) ExportAssets(ctx context.Context, assets []bnl.RawAsset, progressCallback ProgressCallback) (*Result, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dirs := assetDirs(assets)
	total := len(assets)

	var (
		mu        sync.Mutex
		result    Result
		processed atomic.Int64
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)

	for i := range assets {
		asset := &assets[i]
		dir := dirs[i]

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			written, err := e.writeAsset(asset, dir)

			mu.Lock()
			if err != nil {
				slog.Warn("Skipping asset", "name", asset.Name, "error", err)
				result.Skipped = append(result.Skipped, Skipped{Name: asset.Name, Err: err})
			} else {
				result.Written++
				result.Bytes += written
			}
			mu.Unlock()

			n := processed.Add(1)
			if progressCallback != nil {
				progressCallback(int(n), total, dir)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return &result, fmt.Errorf("exporting assets: %w", err)
	}

	return &result, nil
}

// writeAsset writes one asset directory and returns the bytes written
func (e *Exporter) writeAsset(asset *bnl.RawAsset, dir string) (int64, error) {
	assetPath := filepath.Join(e.outputDir, dir)

	info, err := os.Stat(assetPath)
	switch {
	case err == nil && !info.IsDir():
		return 0, fmt.Errorf("%w: %s", ErrPathIsFile, assetPath)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return 0, fmt.Errorf("checking %s: %w", assetPath, err)
	}

	if err := os.MkdirAll(assetPath, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", assetPath, err)
	}

	if err := os.WriteFile(filepath.Join(assetPath, DescriptorFile), asset.Descriptor, 0644); err != nil {
		return 0, fmt.Errorf("writing descriptor for %s: %w", asset.Name, err)
	}
	written := int64(len(asset.Descriptor))

	for i, slice := range asset.Slices {
		name := fmt.Sprintf("resource%d", i)
		if err := os.WriteFile(filepath.Join(assetPath, name), slice, 0644); err != nil {
			return written, fmt.Errorf("writing %s for %s: %w", name, asset.Name, err)
		}
		written += int64(len(slice))
	}

	slog.Debug("Exported asset", "name", asset.Name, "path", assetPath, "slices", len(asset.Slices))
	return written, nil
}

// assetDirs picks a directory name per asset. Names are sanitized, and an
// asset whose name repeats an earlier one gets its record index appended so
// concurrent writers never share a directory.
func assetDirs(assets []bnl.RawAsset) []string {
	dirs := make([]string, len(assets))
	seen := make(map[string]bool, len(assets))

	for i, a := range assets {
		dir := sanitizeName(a.Name, a.Index)
		if seen[dir] {
			dir = fmt.Sprintf("%s.%d", dir, a.Index)
		}
		seen[dir] = true
		dirs[i] = dir
	}

	return dirs
}

// sanitizeName makes an asset name safe to use as a single path element.
// Separators become @ and control characters become _.
func sanitizeName(name string, index int) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '@'
		case r < 0x20 || r == 0x7f:
			return '_'
		}
		return r
	}, name)

	switch name {
	case "":
		return fmt.Sprintf("unnamed_%d", index)
	case ".", "..":
		return strings.ReplaceAll(name, ".", "_")
	}
	return name
}
