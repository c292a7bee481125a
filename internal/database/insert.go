package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// BulkInserter handles batched insertion of catalog rows
type BulkInserter struct {
	db        *Database
	batchSize int
}

// BulkInsertOptions configures bulk insertion behavior
type BulkInsertOptions struct {
	// BatchSize determines how many rows to insert per transaction
	BatchSize int
}

// DefaultBulkInsertOptions returns sensible defaults for bulk insertion
func DefaultBulkInsertOptions() *BulkInsertOptions {
	return &BulkInsertOptions{
		BatchSize: 1000,
	}
}

// NewBulkInserter creates a new bulk inserter with the given database and options
func NewBulkInserter(db *Database, options *BulkInsertOptions) *BulkInserter {
	if options == nil {
		options = DefaultBulkInsertOptions()
	}

	batchSize := options.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	return &BulkInserter{
		db:        db,
		batchSize: batchSize,
	}
}

// Table names a destination table and the columns each row supplies, in order
type Table struct {
	Name    string
	Columns []string

	// Replace overwrites rows that collide on a unique key
	Replace bool
}

// Insert writes rows into table, one transaction per batch. Each row must
// carry one value per column.
func (bi *BulkInserter) Insert(ctx context.Context, table Table, rows [][]any) error {
	if len(table.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", table.Name)
	}

	if len(rows) == 0 {
		slog.Debug("No rows to insert", "table", table.Name)
		return nil
	}

	insertSQL := table.insertSQL()

	for i := 0; i < len(rows); i += bi.batchSize {
		end := min(i+bi.batchSize, len(rows))

		if err := bi.insertBatch(ctx, insertSQL, table, rows[i:end]); err != nil {
			return fmt.Errorf("inserting batch %d-%d for table %s: %w", i, end-1, table.Name, err)
		}
	}

	slog.Debug("Inserted rows", "table", table.Name, "rows", len(rows))
	return nil
}

// insertSQL creates the INSERT statement for the table's columns
func (t Table) insertSQL() string {
	quoted := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, column := range t.Columns {
		quoted[i] = quoteSQLIdentifier(column)
		placeholders[i] = "?"
	}

	verb := "INSERT"
	if t.Replace {
		verb = "INSERT OR REPLACE"
	}

	return fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb,
		quoteSQLIdentifier(t.Name),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))
}

// insertBatch inserts a single batch of rows within a transaction
func (bi *BulkInserter) insertBatch(ctx context.Context, insertSQL string, table Table, batch [][]any) error {
	tx, err := bi.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range batch {
		if len(row) != len(table.Columns) {
			return fmt.Errorf("row %d has %d values, table %s has %d columns", i, len(row), table.Name, len(table.Columns))
		}

		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
