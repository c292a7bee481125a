package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jchantrell/bnltool/internal/database"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog <file.bnl>...",
	Short: "Record the structure of BNL files in the SQLite catalog",
	Long: `Catalog stores the header, asset records, view lists and resource hashes of
each BNL file in a SQLite database. Files already in the catalog are
replaced. Query the result with "bnltool query".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Catalog))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer db.Close()

		catalog := database.NewCatalog(db, database.DefaultBulkInsertOptions())
		if err := catalog.Init(ctx); err != nil {
			return fmt.Errorf("initializing catalog: %w", err)
		}

		failed := 0
		for _, path := range args {
			container, err := loadContainer(path)
			if err != nil {
				slog.Error("Failed to load BNL file", "path", path, "error", err)
				failed++
				continue
			}

			key, err := filepath.Abs(path)
			if err != nil {
				key = path
			}

			result, err := catalog.AddContainer(ctx, key, container)
			if err != nil {
				slog.Error("Failed to catalog BNL file", "path", path, "error", err)
				failed++
				continue
			}

			slog.Info("Cataloged",
				"path", path,
				"container_id", result.ContainerID,
				"records", result.Records,
				"views", result.Views,
				"diagnostics", result.Diagnostics)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be cataloged", failed, len(args))
		}

		fmt.Printf("Catalog written to %s\n", cfg.Catalog)
		fmt.Println("Try running: bnltool query --tables")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
