package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jchantrell/bnltool/internal/bnl"
)

// containerOptions builds core options from the loaded configuration
func containerOptions() *bnl.Options {
	return &bnl.Options{
		CompressionLevel: cfg.CompressionLevel,
		MaxInflatedSize:  cfg.MaxInflatedSize,
		Logger:           slog.Default(),
	}
}

// loadContainer reads and parses a BNL file
func loadContainer(path string) (*bnl.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c, err := bnl.FromBytes(data, containerOptions())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return c, nil
}

// writeContainer serializes c to path
func writeContainer(c *bnl.Container, path string) (int, error) {
	data, err := c.Bytes()
	if err != nil {
		return 0, fmt.Errorf("serializing container: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}

	return len(data), nil
}

// logDiagnostics reports records skipped by a batch operation
func logDiagnostics(diags []bnl.Diagnostic) {
	for _, d := range diags {
		slog.Warn("Skipped record", "index", d.Index, "name", d.Name, "error", d.Err)
	}
}
