package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jchantrell/bnltool/internal/export"
	"github.com/jchantrell/bnltool/internal/utils"
	"github.com/spf13/cobra"
)

type ExtractionStats struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalRecords int
	Resolved     int
	Written      int
	BytesWritten int64
	Unresolved   int
	WriteErrors  int
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.bnl>",
	Short: "Extract every asset of a BNL file to disk",
	Long: `Extract writes each asset of a BNL file to <out-dir>/<name>_bnl/<asset>/,
as a descriptor file plus one resourceN file per physical slice of the
asset's resource.

Records whose descriptor or view list cannot be resolved are skipped with a
warning. An asset whose directory path is already taken by a file is skipped
as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		stats := &ExtractionStats{
			StartTime: time.Now(),
		}

		path := args[0]
		slog.Info("Opening BNL file", "path", path)

		container, err := loadContainer(path)
		if err != nil {
			return err
		}

		assets, diags := container.RawAll()
		logDiagnostics(diags)

		stats.TotalRecords = len(container.Records())
		stats.Resolved = len(assets)
		stats.Unresolved = len(diags)

		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if stem == "" {
			stem = "unknown"
		}
		destDir := filepath.Join(cfg.OutDir, stem+"_bnl")

		slog.Info("Extracting assets", "count", len(assets), "output", destDir, "workers", cfg.Workers)

		progress := utils.NewProgress(len(assets), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		exporter := export.NewExporter(destDir, cfg.Workers)
		result, err := exporter.ExportAssets(ctx, assets, func(current, total int, description string) {
			progress.Increment(description)
		})
		progress.Finish()
		if err != nil {
			return err
		}

		stats.Written = result.Written
		stats.BytesWritten = result.Bytes
		stats.WriteErrors = len(result.Skipped)
		stats.EndTime = time.Now()

		printExtractionStats(stats)
		return nil
	},
}

func printExtractionStats(stats *ExtractionStats) {
	duration := stats.EndTime.Sub(stats.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	totalMemoryMB := float64(memStats.Alloc) / 1024.0 / 1024.0

	var assetRate float64
	if seconds := duration.Seconds(); seconds > 0 {
		assetRate = float64(stats.Written) / seconds
	}

	fmt.Printf("Records: %s\n", utils.Number(int64(stats.TotalRecords)))
	fmt.Printf("Assets written: %s/%s\n", utils.Number(int64(stats.Written)), utils.Number(int64(stats.Resolved)))
	fmt.Printf("Unresolved records: %d\n", stats.Unresolved)
	fmt.Printf("Write errors: %d\n", stats.WriteErrors)
	fmt.Printf("Bytes written: %s\n", utils.Bytes(stats.BytesWritten))
	fmt.Printf("Duration: %s\n", utils.Duration(duration))
	fmt.Printf("Extraction rate: %s assets/sec\n", utils.Rate(assetRate))
	fmt.Printf("Memory usage: %.2fmb\n", totalMemoryMB)
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
