package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jchantrell/bnltool/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	outDir           string
	catalogPath      string
	compressionLevel int
	workers          int
	logLevel         string
	logFormat        string
	noProgress       bool
)

var rootCmd = &cobra.Command{
	Use:   "bnltool",
	Short: "Inspect, extract and patch BNL asset containers",
	Long: `bnltool reads BNL asset containers: a 40-byte header followed by a single
zlib stream holding the asset table, view lists, raw resource buffer and
descriptors.

It can extract every asset to disk, list and inspect records, patch
resources and descriptors in place, re-serialize containers and build a
queryable SQLite catalog of their structure.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("out-dir") {
			cfg.OutDir = outDir
		}
		if cmd.Flags().Changed("catalog") {
			cfg.Catalog = catalogPath
		}
		if cmd.Flags().Changed("compression-level") {
			cfg.CompressionLevel = compressionLevel
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		slog.SetDefault(slog.New(handler))

		slog.Debug("Configuration",
			"out_dir", cfg.OutDir,
			"catalog", cfg.Catalog,
			"compression_level", cfg.CompressionLevel,
			"max_inflated_size", cfg.MaxInflatedSize,
			"workers", cfg.Workers,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is bnltool.yaml in $HOME or pwd)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "directory extracted assets are written under")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "SQLite catalog file path")
	rootCmd.PersistentFlags().IntVar(&compressionLevel, "compression-level", 1, "zlib level used when writing containers (-2 to 9)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "number of concurrent export workers")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
