// Package sqlite implements the catalog export store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/blueprintcatalog/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/storage"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/storage/sqlite/migrations"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed catalog export store.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.CatalogStore = (*Store)(nil)

// OpenExport opens (or creates) the export database at path and applies
// embedded migrations.
func OpenExport(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.CatalogFS, "catalog"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying SQLite database.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// ReplaceCatalog deletes every exported row, inserts entries, and appends an
// export record, all in a single transaction.
func (s *Store) ReplaceCatalog(ctx context.Context, entries []storage.CatalogEntry) error {
	if err := s.validate(ctx); err != nil {
		return err
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry.GUID) == "" {
			return fmt.Errorf("catalog entry guid is required")
		}
		if !entry.Variant.Recognized() {
			return fmt.Errorf("catalog entry %s has unrecognized variant %s", entry.GUID, entry.Variant)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_entries"); err != nil {
		return fmt.Errorf("clear catalog entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO catalog_entries (guid, variant, name, position, exported_at)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			entry.GUID,
			entry.Variant.String(),
			entry.Name,
			entry.Position,
			toMillis(entry.ExportedAt),
		); err != nil {
			return fmt.Errorf("insert catalog entry %s: %w", entry.GUID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_exports (fingerprint, entry_count, exported_at)
VALUES (?, ?, ?)`,
		storage.Fingerprint(entries),
		len(entries),
		toMillis(s.now()),
	); err != nil {
		return fmt.Errorf("record catalog export: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// ListCatalog returns the exported entries for variant in position order.
func (s *Store) ListCatalog(ctx context.Context, variant blueprint.Variant) ([]storage.CatalogEntry, error) {
	if err := s.validate(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT guid, variant, name, position, exported_at
FROM catalog_entries
WHERE variant = ?
ORDER BY position`, variant.String())
	if err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog entries: %w", err)
	}
	return entries, nil
}

// GetCatalogEntry returns the exported entry for guid.
func (s *Store) GetCatalogEntry(ctx context.Context, guid string) (storage.CatalogEntry, error) {
	if err := s.validate(ctx); err != nil {
		return storage.CatalogEntry{}, err
	}
	if strings.TrimSpace(guid) == "" {
		return storage.CatalogEntry{}, fmt.Errorf("catalog entry guid is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT guid, variant, name, position, exported_at
FROM catalog_entries
WHERE guid = ?`, guid)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CatalogEntry{}, storage.ErrNotFound
		}
		return storage.CatalogEntry{}, err
	}
	return entry, nil
}

// LatestExport returns the most recent export record.
func (s *Store) LatestExport(ctx context.Context) (storage.ExportRecord, error) {
	if err := s.validate(ctx); err != nil {
		return storage.ExportRecord{}, err
	}

	var (
		record     storage.ExportRecord
		exportedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT fingerprint, entry_count, exported_at
FROM catalog_exports
ORDER BY id DESC
LIMIT 1`).Scan(&record.Fingerprint, &record.EntryCount, &exportedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ExportRecord{}, storage.ErrNotFound
		}
		return storage.ExportRecord{}, fmt.Errorf("read latest export: %w", err)
	}
	record.ExportedAt = fromMillis(exportedAt)
	return record, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (storage.CatalogEntry, error) {
	var (
		entry      storage.CatalogEntry
		variant    string
		exportedAt int64
	)
	if err := row.Scan(&entry.GUID, &variant, &entry.Name, &entry.Position, &exportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CatalogEntry{}, err
		}
		return storage.CatalogEntry{}, fmt.Errorf("scan catalog entry: %w", err)
	}
	v, err := blueprint.ParseVariant(variant)
	if err != nil {
		return storage.CatalogEntry{}, fmt.Errorf("catalog entry %s: %w", entry.GUID, err)
	}
	entry.Variant = v
	entry.ExportedAt = fromMillis(exportedAt)
	return entry, nil
}
