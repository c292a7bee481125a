package database

import (
	"context"
	"fmt"
	"log/slog"
)

// Catalog table names
const (
	TableContainers  = "containers"
	TableAssetTypes  = "asset_types"
	TableRecords     = "records"
	TableViews       = "views"
	TableDiagnostics = "diagnostics"
)

// DDLRequest is one schema statement
type DDLRequest struct {
	TableName string
	DDL       string
}

// catalogDDL lists the catalog schema in dependency order. Child rows cascade
// when their container row is deleted.
var catalogDDL = []DDLRequest{
	{
		TableName: TableContainers,
		DDL: `CREATE TABLE IF NOT EXISTS containers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE,
	file_count INTEGER NOT NULL,
	flags INTEGER NOT NULL,
	record_count INTEGER NOT NULL,
	records_size INTEGER NOT NULL,
	view_lists_size INTEGER NOT NULL,
	resources_size INTEGER NOT NULL,
	descriptors_size INTEGER NOT NULL,
	cataloged_at TEXT NOT NULL
)`,
	},
	{
		TableName: TableAssetTypes,
		DDL: `CREATE TABLE IF NOT EXISTS asset_types (
	code INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL
)`,
	},
	{
		TableName: TableRecords,
		DDL: `CREATE TABLE IF NOT EXISTS records (
	container_id INTEGER NOT NULL REFERENCES containers(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	name TEXT NOT NULL,
	type INTEGER NOT NULL REFERENCES asset_types(code),
	unknown_a INTEGER NOT NULL,
	unknown_b INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	descriptor_ptr INTEGER NOT NULL,
	descriptor_size INTEGER NOT NULL,
	view_list_ptr INTEGER NOT NULL,
	resource_size INTEGER NOT NULL,
	resource_hash TEXT,
	PRIMARY KEY (container_id, idx)
)`,
	},
	{
		TableName: TableViews,
		DDL: `CREATE TABLE IF NOT EXISTS views (
	container_id INTEGER NOT NULL,
	record_idx INTEGER NOT NULL,
	view_idx INTEGER NOT NULL,
	byte_offset INTEGER NOT NULL,
	byte_size INTEGER NOT NULL,
	PRIMARY KEY (container_id, record_idx, view_idx),
	FOREIGN KEY (container_id, record_idx) REFERENCES records(container_id, idx) ON DELETE CASCADE
)`,
	},
	{
		TableName: TableDiagnostics,
		DDL: `CREATE TABLE IF NOT EXISTS diagnostics (
	container_id INTEGER NOT NULL REFERENCES containers(id) ON DELETE CASCADE,
	record_idx INTEGER NOT NULL,
	name TEXT NOT NULL,
	error TEXT NOT NULL
)`,
	},
	{
		TableName: TableRecords,
		DDL:       `CREATE INDEX IF NOT EXISTS records_name ON records(name)`,
	},
}

// CreateSchema creates the catalog tables in a single transaction. It is safe
// to run against an existing catalog.
func CreateSchema(ctx context.Context, db *Database) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for _, req := range catalogDDL {
		if _, err := tx.ExecContext(ctx, req.DDL); err != nil {
			return fmt.Errorf("executing DDL for %s: %w", req.TableName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	slog.Debug("Catalog schema ready", "statements", len(catalogDDL))
	return nil
}

// quoteSQLIdentifier quotes SQL identifiers to prevent conflicts with reserved words
func quoteSQLIdentifier(identifier string) string {
	// In SQLite, identifiers can be quoted with double quotes
	return fmt.Sprintf(`"%s"`, identifier)
}
