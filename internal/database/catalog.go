package database

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jchantrell/bnltool/internal/bnl"
	"github.com/jchantrell/bnltool/internal/utils"
)

var (
	recordsTable = Table{
		Name: TableRecords,
		Columns: []string{
			"container_id", "idx", "name", "type", "unknown_a", "unknown_b", "chunk_count",
			"descriptor_ptr", "descriptor_size", "view_list_ptr", "resource_size", "resource_hash",
		},
	}
	viewsTable = Table{
		Name:    TableViews,
		Columns: []string{"container_id", "record_idx", "view_idx", "byte_offset", "byte_size"},
	}
	diagnosticsTable = Table{
		Name:    TableDiagnostics,
		Columns: []string{"container_id", "record_idx", "name", "error"},
	}
)

// Catalog records the structure of BNL containers in SQLite so they can be
// inspected with plain SQL.
type Catalog struct {
	db       *Database
	inserter *BulkInserter
}

// CatalogResult summarizes one AddContainer call
type CatalogResult struct {
	ContainerID int64
	Records     int
	Views       int
	Diagnostics int
}

// NewCatalog wraps db. The schema must be created with CreateSchema first.
func NewCatalog(db *Database, options *BulkInsertOptions) *Catalog {
	return &Catalog{
		db:       db,
		inserter: NewBulkInserter(db, options),
	}
}

// Init creates the schema and fills the asset type lookup table
func (c *Catalog) Init(ctx context.Context) error {
	if err := CreateSchema(ctx, c.db); err != nil {
		return err
	}

	types := bnl.AssetTypes()
	rows := make([][]any, len(types))
	for i, t := range types {
		rows[i] = []any{uint32(t), t.String(), utils.ToSnakeCase(t.String())}
	}

	return c.inserter.Insert(ctx, Table{Name: TableAssetTypes, Columns: []string{"code", "name", "slug"}, Replace: true}, rows)
}

// AddContainer catalogs c under path, replacing any earlier entry for the
// same path. Records whose resource cannot be resolved are still cataloged,
// without a hash or views, and their failure is stored as a diagnostic.
func (c *Catalog) AddContainer(ctx context.Context, path string, container *bnl.Container) (*CatalogResult, error) {
	if _, err := c.db.Exec(ctx, `DELETE FROM containers WHERE path = ?`, path); err != nil {
		return nil, fmt.Errorf("removing previous entry for %s: %w", path, err)
	}

	header := container.Header()
	records := container.Records()

	res, err := c.db.Exec(ctx, `INSERT INTO containers (
		path, file_count, flags, record_count,
		records_size, view_lists_size, resources_size, descriptors_size, cataloged_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		path, header.FileCount, header.Flags, len(records),
		header.View(bnl.SectionRecords).Size,
		header.View(bnl.SectionViewLists).Size,
		header.View(bnl.SectionResources).Size,
		header.View(bnl.SectionDescriptors).Size,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("inserting container %s: %w", path, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading container id: %w", err)
	}

	assets, diags := container.RawAll()
	hashes := make(map[int]string, len(assets))
	for _, a := range assets {
		hashes[a.Index] = strconv.FormatUint(a.Checksum(), 16)
	}

	recordRows := make([][]any, 0, len(records))
	var viewRows [][]any

	for _, rec := range records {
		var hash any
		if h, ok := hashes[rec.Index]; ok {
			hash = h
		}

		recordRows = append(recordRows, []any{
			id, rec.Index, rec.Name(), uint32(rec.Type), rec.UnknownA, rec.UnknownB, rec.ChunkCount,
			rec.DescriptorPtr, rec.DescriptorSize, rec.ViewListPtr, rec.ResourceSize, hash,
		})

		if !rec.HasResource() {
			continue
		}

		// Views are only listed for records whose resource resolved
		if _, ok := hashes[rec.Index]; !ok {
			continue
		}

		vl, err := container.ViewList(rec)
		if err != nil {
			slog.Debug("Skipping views", "index", rec.Index, "name", rec.Name(), "error", err)
			continue
		}
		for i, v := range vl.Views {
			viewRows = append(viewRows, []any{id, rec.Index, i, v.Offset, v.Size})
		}
	}

	diagRows := make([][]any, len(diags))
	for i, d := range diags {
		diagRows[i] = []any{id, d.Index, d.Name, d.Err.Error()}
	}

	if err := c.inserter.Insert(ctx, recordsTable, recordRows); err != nil {
		return nil, err
	}
	if err := c.inserter.Insert(ctx, viewsTable, viewRows); err != nil {
		return nil, err
	}
	if err := c.inserter.Insert(ctx, diagnosticsTable, diagRows); err != nil {
		return nil, err
	}

	return &CatalogResult{
		ContainerID: id,
		Records:     len(recordRows),
		Views:       len(viewRows),
		Diagnostics: len(diagRows),
	}, nil
}
